// test/benchmarks/helpers.go
package benchmarks

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/wshuai/catalog-be/internal/core/domain"
)

// buildWorkbook produces xlsx bytes with the import column layout and the
// given number of product rows.
func buildWorkbook(rows int) []byte {
	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("Products")
	if err != nil {
		panic(err)
	}

	header := sheet.AddRow()
	for _, col := range []string{"Name", "Serial Number", "Description", "Category ID", "Price", "Original Price", "Stock", "Unit", "Remark"} {
		header.AddCell().SetString(col)
	}

	for i := 0; i < rows; i++ {
		row := sheet.AddRow()
		row.AddCell().SetString(fmt.Sprintf("Benchmark Product %d", i))
		row.AddCell().SetString(fmt.Sprintf("BN2025%06d", i))
		row.AddCell().SetString("Generated for parser benchmarks")
		row.AddCell().SetString("12")
		row.AddCell().SetString(fmt.Sprintf("%d.90", 10+i%90))
		row.AddCell().SetString("")
		row.AddCell().SetString(strconv.Itoa(i % 200))
		row.AddCell().SetString("件")
		row.AddCell().SetString("")
	}

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// parseWorkbook walks every data row and builds products the way the
// import pipeline does.
func parseWorkbook(content []byte) ([]*domain.Product, error) {
	wb, err := xlsx.OpenBinary(content)
	if err != nil {
		return nil, err
	}
	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	var products []*domain.Product
	rowIdx := 0
	err = wb.Sheets[0].ForEachRow(func(row *xlsx.Row) error {
		rowIdx++
		if rowIdx == 1 {
			return nil
		}

		name := strings.TrimSpace(row.GetCell(0).String())
		if name == "" {
			return nil
		}

		price, err := decimal.NewFromString(strings.TrimSpace(row.GetCell(4).String()))
		if err != nil {
			return err
		}

		stock, _ := strconv.Atoi(strings.TrimSpace(row.GetCell(6).String()))

		products = append(products, &domain.Product{
			Name:         name,
			SerialNumber: strings.TrimSpace(row.GetCell(1).String()),
			Description:  strings.TrimSpace(row.GetCell(2).String()),
			Price:        price,
			Stock:        stock,
			Unit:         strings.TrimSpace(row.GetCell(7).String()),
			CreatedBy:    1,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return products, nil
}
