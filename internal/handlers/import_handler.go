package handlers

import (
	"encoding/csv"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"catalog-service/internal/events"
	"catalog-service/internal/importer"
	"catalog-service/internal/middleware"
	"catalog-service/internal/models"
)

// maxImportFileSize caps uploads at 10MB.
const maxImportFileSize = 10 << 20

type ImportHandler struct {
	importer  *importer.Importer
	publisher *events.Publisher
	logger    *logrus.Entry
}

func NewImportHandler(imp *importer.Importer, publisher *events.Publisher, logger *logrus.Logger) *ImportHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &ImportHandler{
		importer:  imp,
		publisher: publisher,
		logger:    logger.WithField("component", "import_handler"),
	}
}

// ImportProducts runs the bulk spreadsheet import.
// POST /api/v1/admin/products/import
func (h *ImportHandler) ImportProducts(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		badRequest(c, "FILE_REQUIRED", "Arquivo não enviado")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportFileSize))
	if err != nil {
		badRequest(c, "FILE_UNREADABLE", "Falha ao ler o arquivo")
		return
	}

	result, err := h.importer.Import(c.Request.Context(), data, header.Filename)
	if err != nil {
		var rowErr *importer.RowError
		switch {
		case errors.Is(err, importer.ErrEmptyWorkbook):
			badRequest(c, "EMPTY_WORKBOOK", "Planilha vazia")
		case errors.As(err, &rowErr):
			badRequest(c, "ROW_INVALID", rowErr.Error())
		default:
			h.logger.WithError(err).Error("Import failed")
			internalError(c, err.Error())
		}
		return
	}

	if h.publisher != nil {
		actorID := ""
		if userID, ok := middleware.CurrentUserID(c); ok {
			actorID = userID.String()
		}
		h.publisher.PublishProductsImported(c.Request.Context(), result.Imported, actorID)
	}

	c.JSON(http.StatusOK, result)
}

// GetImportTemplate returns the import template definition or file.
// GET /api/v1/admin/products/import/template?format=json|csv|xlsx
func (h *ImportHandler) GetImportTemplate(c *gin.Context) {
	template := models.ProductImportTemplate()

	switch c.DefaultQuery("format", "json") {
	case "csv":
		h.writeCSVTemplate(c, template)
	case "xlsx":
		h.writeXLSXTemplate(c, template)
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"template": template,
		})
	}
}

func (h *ImportHandler) writeCSVTemplate(c *gin.Context, template models.ImportTemplate) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=products_import_template.csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	headers := make([]string, len(template.Columns))
	for i, col := range template.Columns {
		headers[i] = col.Name
	}
	writer.Write(headers)
}

func (h *ImportHandler) writeXLSXTemplate(c *gin.Context, template models.ImportTemplate) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Products"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	requiredStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
	})

	for i, col := range template.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		headerText := col.Name
		if col.Required {
			headerText = col.Name + " *"
		}
		f.SetCellValue(sheetName, cell, headerText)

		if col.Required {
			f.SetCellStyle(sheetName, cell, cell, requiredStyle)
		} else {
			f.SetCellStyle(sheetName, cell, cell, headerStyle)
		}

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 22)
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=products_import_template.xlsx")

	f.Write(c.Writer)
}
