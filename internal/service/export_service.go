package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"carepoint/backend/internal/authz"
)

// ExportService 导出业务接口
//
// 患者病史导出为 Excel (.xlsx)，按记录类型分 Sheet：医嘱 / 工单 / 报告。
// 导出以 bytes.Buffer 返回，由 Handler 层设置下载响应头。
type ExportService interface {
	// ExportPatientHistory 返回 Excel 内容与建议文件名
	ExportPatientHistory(ctx context.Context, p authz.Principal, patientID int64) (*bytes.Buffer, string, error)
}

type exportService struct {
	workflow WorkflowService
	logger   *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(workflow WorkflowService, logger *zap.Logger) ExportService {
	return &exportService{workflow: workflow, logger: logger}
}

// Sheet 名称
const (
	sheetOrders      = "医嘱"
	sheetAssignments = "工单"
	sheetReports     = "报告"
)

// ═══════════════════════════════════════════════════════════
// ExportPatientHistory 导出患者病史为 Excel
// ═══════════════════════════════════════════════════════════
//
// 每个 Sheet 第 1 行为标题（患者姓名 + 记录类型），第 2 行为表头，数据从第 3 行开始，
// 记录按时间倒序排列。

func (s *exportService) ExportPatientHistory(ctx context.Context, p authz.Principal, patientID int64) (*bytes.Buffer, string, error) {
	history, err := s.workflow.PatientHistory(ctx, p, patientID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	title := func(kind string) string {
		return fmt.Sprintf("%s（#%d） %s", history.Patient.Name, history.Patient.ID, kind)
	}

	// 医嘱
	orderRows := make([][]interface{}, 0, len(history.Orders))
	for _, o := range history.Orders {
		orderRows = append(orderRows, []interface{}{o.ID, o.OrderType, o.Notes, o.DoctorName, o.CreatedAt})
	}
	if err := writeSheet(f, sheetOrders, title(sheetOrders),
		[]string{"编号", "医嘱类型", "备注", "开具医生", "创建时间"},
		[]float64{8, 20, 40, 14, 22}, orderRows, headerStyle); err != nil {
		s.logger.Error("写入医嘱 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	// 工单
	assignmentRows := make([][]interface{}, 0, len(history.Assignments))
	for _, a := range history.Assignments {
		assignmentRows = append(assignmentRows, []interface{}{a.ID, a.TaskType, a.Status, a.AssigneeName, a.DoctorName, a.Notes, a.CreatedAt})
	}
	if err := writeSheet(f, sheetAssignments, title(sheetAssignments),
		[]string{"编号", "任务类型", "状态", "执行人", "派单医生", "备注", "创建时间"},
		[]float64{8, 20, 14, 14, 14, 40, 22}, assignmentRows, headerStyle); err != nil {
		s.logger.Error("写入工单 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	// 报告
	reportRows := make([][]interface{}, 0, len(history.Reports))
	for _, r := range history.Reports {
		reportRows = append(reportRows, []interface{}{r.ID, r.ReportType, r.ReportText, r.CreatedByName, r.ImageFilename, r.CreatedAt})
	}
	if err := writeSheet(f, sheetReports, title(sheetReports),
		[]string{"编号", "报告类型", "内容", "提交人", "附件", "创建时间"},
		[]float64{8, 16, 50, 14, 24, 22}, reportRows, headerStyle); err != nil {
		s.logger.Error("写入报告 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(sheetOrders); err == nil {
		f.SetActiveSheet(idx)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("病史_%s_%d.xlsx", history.Patient.Name, history.Patient.ID)
	return buf, filename, nil
}

// writeSheet 创建 Sheet 并写入标题、表头与数据行
func writeSheet(f *excelize.File, sheet, title string, headers []string, widths []float64, rows [][]interface{}, headerStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	for i, w := range widths {
		col := colName(i)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}

	// 标题行
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "A1", cell(colName(len(headers)-1), 1)); err != nil {
		return err
	}
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	// 表头
	for i, h := range headers {
		if err := f.SetCellValue(sheet, cell(colName(i), 2), h); err != nil {
			return err
		}
	}
	_ = f.SetCellStyle(sheet, "A2", cell(colName(len(headers)-1), 2), headerStyle)

	// 数据行
	for r, values := range rows {
		for i, v := range values {
			if err := f.SetCellValue(sheet, cell(colName(i), r+3), v); err != nil {
				return err
			}
		}
	}
	return nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
