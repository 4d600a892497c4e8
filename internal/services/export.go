package services

import (
	"context"
	"fmt"
	"time"

	"github.com/allinone-seolbi/site/internal/model"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "상담문의"

var exportHeader = []string{"접수일시", "이름", "연락처", "문의내용", "상태"}

// Export renders every contact into an xlsx workbook, newest first.
func (s *ContactService) Export(ctx context.Context) (string, []byte, error) {
	contacts, err := s.List(ctx)
	if err != nil {
		return "", nil, err
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	if err := xl.SetSheetName(xl.GetSheetName(0), exportSheet); err != nil {
		return "", nil, fmt.Errorf("rename sheet: %w", err)
	}
	header := exportHeader
	if err := xl.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return "", nil, fmt.Errorf("write header: %w", err)
	}
	for i, c := range contacts {
		record := []string{
			c.CreatedAt.In(model.DisplayZone).Format("2006-01-02 15:04"),
			c.Name,
			c.Phone,
			c.Message,
			c.Status.Label(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", nil, err
		}
		if err := xl.SetSheetRow(exportSheet, cell, &record); err != nil {
			return "", nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	_ = xl.SetColWidth(exportSheet, "A", "A", 18)
	_ = xl.SetColWidth(exportSheet, "D", "D", 60)

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, fmt.Errorf("write workbook: %w", err)
	}
	filename := fmt.Sprintf("contacts_%s.xlsx", time.Now().In(model.DisplayZone).Format("20060102_1504"))
	return filename, buf.Bytes(), nil
}
