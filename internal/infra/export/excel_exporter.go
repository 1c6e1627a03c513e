// Package export writes registry snapshots as spreadsheets for blood banks.
package export

import (
	"context"
	"io"
	"time"

	"thalassist/internal/domain/entity"
	"thalassist/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// DonorSheet is the worksheet holding the donor rows.
const DonorSheet = "Donors"

const dateLayout = "2006-01-02"

var donorHeader = []any{
	"ID", "Name", "Blood Group", "Location", "Phone", "Email",
	"Last Donation", "Eligible From", "Status", "Verified", "Donations",
}

type excelExporter struct{}

// NewExcelExporter creates an xlsx donor exporter.
func NewExcelExporter() service.DonorExporter {
	return &excelExporter{}
}

// ExportDonors writes one row per donor under a bold header row.
func (e *excelExporter) ExportDonors(ctx context.Context, w io.Writer, donors []*entity.Donor, now time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), DonorSheet); err != nil {
		return errors.Wrap(err, "failed to rename sheet")
	}

	if err := f.SetSheetRow(DonorSheet, "A1", &donorHeader); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "failed to create header style")
	}
	lastHeaderCell, err := excelize.CoordinatesToCellName(len(donorHeader), 1)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := f.SetCellStyle(DonorSheet, "A1", lastHeaderCell, headerStyle); err != nil {
		return errors.Wrap(err, "failed to style header")
	}

	for i, donor := range donors {
		if err := ctx.Err(); err != nil {
			return errors.WithStack(err)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.WithStack(err)
		}
		row := donorRow(donor, now)
		if err := f.SetSheetRow(DonorSheet, cell, &row); err != nil {
			return errors.Wrapf(err, "failed to write donor %s", donor.ID)
		}
	}

	if err := f.SetColWidth(DonorSheet, "B", "F", 24); err != nil {
		return errors.Wrap(err, "failed to size columns")
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "failed to write workbook")
	}

	return nil
}

func donorRow(donor *entity.Donor, now time.Time) []any {
	lastDonation := ""
	if donor.LastDonation != nil {
		lastDonation = donor.LastDonation.Format(dateLayout)
	}

	return []any{
		donor.ID,
		donor.Name,
		donor.BloodType.String(),
		donor.Location,
		donor.Phone,
		donor.Email,
		lastDonation,
		donor.EligibleDate.Format(dateLayout),
		donor.StatusAt(now).String(),
		donor.Verified,
		donor.DonationCount,
	}
}
