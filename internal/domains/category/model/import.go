package model

// ========================================
// CSV IMPORT
// ========================================

// MaxImportRows - giới hạn số dòng data của một file import
const MaxImportRows = 1000

// ImportColumns - header của file CSV (thứ tự cột tùy ý, tên không phân biệt hoa thường)
var ImportColumns = []string{"category_name", "title", "image", "price", "retailer", "affiliate_link", "description"}

// ImportRowError - một lỗi validation của một dòng (Row tính cả header, dòng data đầu tiên là 2)
type ImportRowError struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
	Value string `json:"value,omitempty"`
	Error string `json:"error"`
}

// ImportResult - all-or-nothing: Success=false thì không dòng nào được ghi
type ImportResult struct {
	Success    bool             `json:"success"`
	TotalRows  int              `json:"total_rows"`
	Imported   int              `json:"imported"`
	FailedRows int              `json:"failed_rows"`
	Errors     []ImportRowError `json:"errors,omitempty"`
	Categories []string         `json:"categories,omitempty"` // category slugs bị ảnh hưởng
}

// ImportRow - một dòng CSV đã map theo header
type ImportRow struct {
	Row     int
	Request CreateItemRequest
}
