// Package reliability snapshots the price cache and ships it to object
// storage.
package reliability

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/perfstats/internal/database"
	"github.com/aristath/perfstats/internal/export"
)

const (
	metadataFile    = "backup-metadata.json"
	metadataVersion = "1"
)

// BackupMetadata is stored next to the snapshot inside the archive
type BackupMetadata struct {
	Timestamp time.Time          `json:"timestamp"`
	Version   string             `json:"version"`
	Databases []DatabaseMetadata `json:"databases"`
}

// DatabaseMetadata describes a single snapshot in the archive
type DatabaseMetadata struct {
	Name      string `json:"name"`
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
	Checksum  string `json:"checksum"`
}

// BackupService snapshots a database and uploads it as a tar.gz archive
type BackupService struct {
	db         *database.DB
	uploader   export.Uploader
	stagingDir string
	log        zerolog.Logger
	now        func() time.Time
}

// NewBackupService creates a backup service staging files under stagingDir
func NewBackupService(db *database.DB, uploader export.Uploader, stagingDir string, log zerolog.Logger) *BackupService {
	return &BackupService{
		db:         db,
		uploader:   uploader,
		stagingDir: stagingDir,
		log:        log.With().Str("component", "backup").Logger(),
		now:        time.Now,
	}
}

// CreateAndUploadBackup snapshots the database with VACUUM INTO, archives it
// with a checksum manifest and uploads the archive. It returns the archive's
// storage location.
func (s *BackupService) CreateAndUploadBackup(ctx context.Context) (string, error) {
	s.log.Info().Msg("Starting backup")
	startTime := time.Now()

	if err := os.MkdirAll(s.stagingDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	staging, err := os.MkdirTemp(s.stagingDir, "backup-")
	if err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	dbFile := s.db.Name() + ".db"
	snapshotPath := filepath.Join(staging, dbFile)
	if _, err := s.db.Conn().ExecContext(ctx, "VACUUM INTO ?", snapshotPath); err != nil {
		return "", fmt.Errorf("failed to snapshot %s: %w", s.db.Name(), err)
	}

	info, err := os.Stat(snapshotPath)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s snapshot: %w", s.db.Name(), err)
	}
	checksum, err := calculateChecksum(snapshotPath)
	if err != nil {
		return "", fmt.Errorf("failed to calculate checksum for %s: %w", s.db.Name(), err)
	}

	timestamp := s.now().UTC()
	metadata := BackupMetadata{
		Timestamp: timestamp,
		Version:   metadataVersion,
		Databases: []DatabaseMetadata{{
			Name:      s.db.Name(),
			Filename:  dbFile,
			SizeBytes: info.Size(),
			Checksum:  checksum,
		}},
	}
	if err := writeMetadata(filepath.Join(staging, metadataFile), metadata); err != nil {
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}

	archiveName := ArchiveName(timestamp)
	archivePath := filepath.Join(staging, archiveName)
	if err := createArchive(archivePath, staging, []string{dbFile, metadataFile}); err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}

	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer archiveFile.Close()

	location, err := s.uploader.Upload(ctx, archiveName, "application/gzip", archiveFile)
	if err != nil {
		return "", fmt.Errorf("failed to upload backup: %w", err)
	}

	s.log.Info().
		Dur("duration_ms", time.Since(startTime)).
		Str("archive", archiveName).
		Str("location", location).
		Int64("db_size_bytes", info.Size()).
		Msg("Backup completed successfully")

	return location, nil
}

// ArchiveName is the object name for a backup taken at t
func ArchiveName(t time.Time) string {
	return fmt.Sprintf("perfstats-cache-%s.tar.gz", t.UTC().Format("2006-01-02-150405"))
}

// BackupJob runs the backup service on a schedule
type BackupJob struct {
	service *BackupService
}

// NewBackupJob creates a new BackupJob
func NewBackupJob(service *BackupService) *BackupJob {
	return &BackupJob{service: service}
}

// Name returns the job name
func (j *BackupJob) Name() string {
	return "backup_cache"
}

// Run executes the backup job
func (j *BackupJob) Run(ctx context.Context) error {
	_, err := j.service.CreateAndUploadBackup(ctx)
	return err
}

func calculateChecksum(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", hash.Sum(nil)), nil
}

func writeMetadata(path string, metadata BackupMetadata) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}

// createArchive writes the named files from sourceDir into a tar.gz
func createArchive(archivePath, sourceDir string, names []string) (err error) {
	archiveFile, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer func() {
		if cerr := archiveFile.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	gzipWriter := gzip.NewWriter(archiveFile)
	tarWriter := tar.NewWriter(gzipWriter)

	for _, name := range names {
		if err := addFileToArchive(tarWriter, filepath.Join(sourceDir, name), name); err != nil {
			return fmt.Errorf("failed to add %s to archive: %w", name, err)
		}
	}

	if err := tarWriter.Close(); err != nil {
		return err
	}
	return gzipWriter.Close()
}

func addFileToArchive(tarWriter *tar.Writer, filePath, nameInArchive string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header := &tar.Header{
		Name:    nameInArchive,
		Size:    info.Size(),
		Mode:    int64(info.Mode()),
		ModTime: info.ModTime(),
	}
	if err := tarWriter.WriteHeader(header); err != nil {
		return err
	}

	_, err = io.Copy(tarWriter, file)
	return err
}
