package tools

import (
	"fmt"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const (
	ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func setAttachment(c *gin.Context, displayName, contentType string) {
	escaped := url.QueryEscape(displayName)
	c.Header("Content-Type", contentType)
	c.Header(
		"Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, escaped, escaped),
	)
}

// SendExcel 把结构体切片导出成 xlsx 并作为附件返回
func SendExcel(c *gin.Context, displayName, sheet string, data any) error {
	f := excelize.NewFile()
	defer f.Close()
	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := ExportToExcel(f, sheet, data); err != nil {
		return err
	}
	// 新建的 sheet 排在默认 Sheet1 之后，有数据时删掉空的 Sheet1
	if idx, err := f.GetSheetIndex(sheet); err == nil && idx >= 0 && sheet != "Sheet1" {
		f.SetActiveSheet(idx)
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}
	setAttachment(c, displayName, ExcelContentType)
	c.Header("Cache-Control", "must-revalidate")
	return f.Write(c.Writer)
}
