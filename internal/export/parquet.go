package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	appconfig "citrusflow/config"
	"citrusflow/internal/analytics"
	"citrusflow/logger"
)

// SellerRecord is the parquet row shape of one seller scorecard.
type SellerRecord struct {
	Seller                string  `parquet:"name=seller, type=BYTE_ARRAY, convertedtype=UTF8"`
	TotalRevenue          float64 `parquet:"name=total_revenue, type=DOUBLE"`
	TotalMargin           float64 `parquet:"name=total_margin, type=DOUBLE"`
	OrderCount            int64   `parquet:"name=order_count, type=INT64"`
	TotalQuantity         float64 `parquet:"name=total_quantity, type=DOUBLE"`
	CancelCount           int64   `parquet:"name=cancel_count, type=INT64"`
	MarginRate            float64 `parquet:"name=margin_rate, type=DOUBLE"`
	CancelRate            float64 `parquet:"name=cancel_rate, type=DOUBLE"`
	AOV                   float64 `parquet:"name=aov, type=DOUBLE"`
	RepurchaseRate        float64 `parquet:"name=repurchase_rate, type=DOUBLE"`
	CustomerCount         int64   `parquet:"name=customer_count, type=INT64"`
	RepurchasingCustomers int64   `parquet:"name=repurchasing_customers, type=INT64"`
	FirstOrder            int64   `parquet:"name=first_order, type=INT64"`
	LastOrder             int64   `parquet:"name=last_order, type=INT64"`
	TenureDays            int64   `parquet:"name=tenure_days, type=INT64"`
	RecencyDays           int64   `parquet:"name=recency_days, type=INT64"`
}

// memoryFile implements the ParquetFile interface for in-memory writing.
type memoryFile struct {
	buffer *bytes.Buffer
}

func newMemoryFile() *memoryFile {
	return &memoryFile{buffer: &bytes.Buffer{}}
}

func (mf *memoryFile) Create(name string) (source.ParquetFile, error) { return mf, nil }
func (mf *memoryFile) Open(name string) (source.ParquetFile, error)  { return mf, nil }

func (mf *memoryFile) Seek(offset int64, whence int) (int64, error) {
	// Write-only usage; the writer never seeks backwards.
	return int64(mf.buffer.Len()), nil
}

func (mf *memoryFile) Read(b []byte) (int, error)  { return mf.buffer.Read(b) }
func (mf *memoryFile) Write(b []byte) (int, error) { return mf.buffer.Write(b) }
func (mf *memoryFile) Close() error                { return nil }
func (mf *memoryFile) Bytes() []byte               { return mf.buffer.Bytes() }

// Exporter writes seller scorecards as a parquet file to the configured
// directory and optionally uploads the file to S3.
type Exporter struct {
	cfg      *appconfig.Config
	s3Client *s3Uploader
	log      *logger.Entry
}

// New builds an exporter. When S3 is enabled the AWS credentials are
// validated up front so a misconfiguration surfaces before the analysis
// runs, not after.
func New(cfg *appconfig.Config) (*Exporter, error) {
	e := &Exporter{
		cfg: cfg,
		log: logger.GetLogger().WithComponent("export"),
	}

	if cfg.Storage.S3.Enabled {
		client, err := newS3Uploader(cfg)
		if err != nil {
			return nil, err
		}
		e.s3Client = client
	}

	return e, nil
}

// Export encodes the summaries and writes them under the export
// directory with a uuid-suffixed name. Returns the local file path.
func (e *Exporter) Export(ctx context.Context, summaries []analytics.SellerSummary) (string, error) {
	data, err := encodeParquet(summaries)
	if err != nil {
		return "", err
	}

	dir := e.cfg.Storage.Export.Directory
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	now := time.Now().UTC()
	filename := fmt.Sprintf("seller_summary_%s_%s.parquet",
		now.Format("20060102150405"),
		uuid.New().String()[:8])
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write parquet file: %w", err)
	}

	e.log.WithFields(logger.Fields{
		"path":      path,
		"sellers":   len(summaries),
		"file_size": len(data),
	}).Info("seller summary exported")

	if e.s3Client != nil {
		key := filepath.ToSlash(filepath.Join(
			e.cfg.Storage.S3.Prefix,
			now.Format("2006-01-02"),
			filename))
		if err := e.s3Client.upload(ctx, key, data); err != nil {
			return path, err
		}
	}

	return path, nil
}

func encodeParquet(summaries []analytics.SellerSummary) ([]byte, error) {
	fw := newMemoryFile()

	pw, err := writer.NewParquetWriter(fw, new(SellerRecord), 4)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, s := range summaries {
		record := SellerRecord{
			Seller:                s.Seller,
			TotalRevenue:          s.TotalRevenue,
			TotalMargin:           s.TotalMargin,
			OrderCount:            int64(s.OrderCount),
			TotalQuantity:         s.TotalQuantity,
			CancelCount:           int64(s.CancelCount),
			MarginRate:            s.MarginRate,
			CancelRate:            s.CancelRate,
			AOV:                   s.AOV,
			RepurchaseRate:        s.RepurchaseRate,
			CustomerCount:         int64(s.CustomerCount),
			RepurchasingCustomers: int64(s.RepurchasingCustomers),
			TenureDays:            int64(s.TenureDays),
			RecencyDays:           int64(s.RecencyDays),
		}
		if !s.FirstOrder.IsZero() {
			record.FirstOrder = s.FirstOrder.UnixMilli()
		}
		if !s.LastOrder.IsZero() {
			record.LastOrder = s.LastOrder.UnixMilli()
		}

		if err := pw.Write(record); err != nil {
			pw.WriteStop()
			return nil, fmt.Errorf("failed to write parquet record: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("failed to finalize parquet writing: %w", err)
	}

	return fw.Bytes(), nil
}
