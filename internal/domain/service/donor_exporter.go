package service

import (
	"context"
	"io"
	"time"

	"thalassist/internal/domain/entity"
)

// DonorExporter writes a registry snapshot as a spreadsheet.
type DonorExporter interface {
	// ExportDonors writes donors to w, with statuses derived as of now
	ExportDonors(ctx context.Context, w io.Writer, donors []*entity.Donor, now time.Time) error
}
