package models

// ImportFormat represents the file format for import
type ImportFormat string

const (
	ImportFormatCSV  ImportFormat = "csv"
	ImportFormatXLSX ImportFormat = "xlsx"
)

// ImportTemplateColumn defines a column in the import template
type ImportTemplateColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"type"`
	Example     string `json:"example"`
}

// ImportTemplate defines the structure of an import template
type ImportTemplate struct {
	Entity  string                 `json:"entity"`
	Version string                 `json:"version"`
	Columns []ImportTemplateColumn `json:"columns"`
}

// ProductImportColumns returns the column contract of the product
// spreadsheet import. Header names match keys the validator expects.
func ProductImportColumns() []ImportTemplateColumn {
	return []ImportTemplateColumn{
		{Name: "title", Description: "Display name", Required: true, Type: "string", Example: "Notebook Pro 14"},
		{Name: "sku", Description: "Unique SKU, the reconciliation key", Required: true, Type: "string", Example: "NTB-PRO-014"},
		{Name: "category", Description: "product or service", Required: true, Type: "string", Example: "product"},
		{Name: "price", Description: "Decimal price, blank for no price", Required: false, Type: "number", Example: "4999.90"},
		{Name: "description", Description: "Long description", Required: false, Type: "string", Example: "14\" business notebook"},
		{Name: "image_url", Description: "Absolute image URL", Required: false, Type: "string", Example: "https://cdn.example.com/ntb.png"},
		{Name: "metadata.href", Description: "Detail page link", Required: false, Type: "string", Example: "/produto/ntb-pro-014"},
		{Name: "metadata.bullets", Description: "Highlights separated by |", Required: false, Type: "string", Example: "16GB RAM|512GB SSD"},
		{Name: "metadata.visible", Description: "Show on storefront", Required: false, Type: "boolean", Example: "true"},
		{Name: "metadata.highlight", Description: "Feature on the home page", Required: false, Type: "boolean", Example: "false"},
		{Name: "metadata.order", Description: "Display ordering", Required: false, Type: "number", Example: "10"},
	}
}

// ProductImportTemplate returns the product import template definition
func ProductImportTemplate() ImportTemplate {
	return ImportTemplate{
		Entity:  "products",
		Version: "1.0",
		Columns: ProductImportColumns(),
	}
}
