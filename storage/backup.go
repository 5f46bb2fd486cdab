package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Backuper sichert die SQLite-Datenbank gzip-komprimiert in einen S3-Bucket und rotiert alte Backups.
type Backuper struct {
	DB       *gorm.DB
	Store    ObjectStore
	Endpoint string
	Bucket   string
	Prefix   string
	Keep     int
	Logger   *zap.Logger

	now func() time.Time
}

// NewBackuper erstellt einen Backuper.
func NewBackuper(db *gorm.DB, store ObjectStore, endpoint, bucket, prefix string, keep int, logger *zap.Logger) *Backuper {
	return &Backuper{
		DB:       db,
		Store:    store,
		Endpoint: endpoint,
		Bucket:   bucket,
		Prefix:   prefix,
		Keep:     keep,
		Logger:   logger,
		now:      time.Now,
	}
}

// Run erstellt einen Snapshot, lädt ihn hoch und löscht überzählige Backups. Gibt den Objekt-Key zurück.
func (b *Backuper) Run(ctx context.Context) (string, error) {
	tmpDir, err := os.MkdirTemp("", "ideaengine-backup-")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tmpDir)

	snapshot := filepath.Join(tmpDir, "snapshot.db")
	if err := SnapshotSQLite(ctx, b.DB, snapshot); err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	data, err := gzipFile(snapshot)
	if err != nil {
		return "", fmt.Errorf("compress: %w", err)
	}

	key := fmt.Sprintf("%sbackup-%s.db.gz", b.Prefix, b.now().UTC().Format("2006-01-02T15-04-05Z"))
	link, err := UploadFile(ctx, b.Store, b.Endpoint, b.Bucket, key, data)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	b.Logger.Info("Backup uploaded", zap.String("link", link), zap.Int("bytes", len(data)))

	if err := b.Rotate(ctx); err != nil {
		return key, fmt.Errorf("rotate: %w", err)
	}
	return key, nil
}

// Rotate löscht alle Backups unter dem Prefix bis auf die neuesten Keep.
func (b *Backuper) Rotate(ctx context.Context) error {
	objects, err := listAll(ctx, b.Store, b.Bucket, b.Prefix)
	if err != nil {
		return err
	}
	stale := staleKeys(objects, b.Keep)
	if len(stale) == 0 {
		b.Logger.Debug("No backup rotation needed", zap.Int("backups", len(objects)), zap.Int("keep", b.Keep))
		return nil
	}
	for _, key := range stale {
		b.Logger.Info("Deleting old backup", zap.String("key", key))
		if _, err := b.Store.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(b.Bucket),
			Key:    aws.String(key),
		}); err != nil {
			b.Logger.Warn("Failed to delete old backup", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

// staleKeys liefert die Keys aller Objekte außer den neuesten keep, neueste zuerst sortiert.
func staleKeys(objects []types.Object, keep int) []string {
	if keep < 0 {
		keep = 0
	}
	if len(objects) <= keep {
		return nil
	}
	sorted := make([]types.Object, len(objects))
	copy(sorted, objects)
	sort.SliceStable(sorted, func(i, j int) bool {
		return aws.ToTime(sorted[i].LastModified).After(aws.ToTime(sorted[j].LastModified))
	})
	var keys []string
	for _, obj := range sorted[keep:] {
		keys = append(keys, aws.ToString(obj.Key))
	}
	return keys
}

// SnapshotSQLite schreibt eine konsistente Kopie der Datenbank mit VACUUM INTO.
func SnapshotSQLite(ctx context.Context, db *gorm.DB, dest string) error {
	if name := db.Dialector.Name(); name != "sqlite" {
		return fmt.Errorf("snapshots are only supported for sqlite, not %s", name)
	}
	return db.WithContext(ctx).Exec("VACUUM INTO ?", dest).Error
}

func gzipFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := io.Copy(gz, f); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
