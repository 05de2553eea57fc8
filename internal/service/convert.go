package service

import (
	"time"

	"carepoint/backend/internal/dto"
	"carepoint/backend/internal/model"
)

// uploadsPrefix 附件下载路由前缀
const uploadsPrefix = "/uploads/"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func toStaffResponse(s *model.Staff) dto.StaffResponse {
	return dto.StaffResponse{
		ID:          s.StaffID,
		Name:        s.Name,
		Role:        s.Role,
		Category:    s.Category,
		Username:    s.Username,
		Phone:       s.Phone,
		IsAvailable: s.IsAvailable,
		CreatedAt:   formatTime(s.CreatedAt),
	}
}

func toStaffResponses(list []model.Staff) []dto.StaffResponse {
	out := make([]dto.StaffResponse, len(list))
	for i := range list {
		out[i] = toStaffResponse(&list[i])
	}
	return out
}

func toPatientResponse(p *model.Patient) dto.PatientResponse {
	return dto.PatientResponse{
		ID:        p.PatientID,
		Name:      p.Name,
		Username:  p.Username,
		Phone:     p.Phone,
		DOB:       p.DOB,
		Gender:    p.Gender,
		CreatedAt: formatTime(p.CreatedAt),
	}
}

func toPatientResponses(list []model.Patient) []dto.PatientResponse {
	out := make([]dto.PatientResponse, len(list))
	for i := range list {
		out[i] = toPatientResponse(&list[i])
	}
	return out
}

func toOrderResponse(o *model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:        o.OrderID,
		PatientID: o.PatientID,
		DoctorID:  o.DoctorID,
		OrderType: o.OrderType,
		Notes:     o.Notes,
		CreatedAt: formatTime(o.CreatedAt),
	}
	if o.Patient != nil {
		resp.PatientName = o.Patient.Name
	}
	if o.Doctor != nil {
		resp.DoctorName = o.Doctor.Name
	}
	return resp
}

func toOrderResponses(list []model.Order) []dto.OrderResponse {
	out := make([]dto.OrderResponse, len(list))
	for i := range list {
		out[i] = toOrderResponse(&list[i])
	}
	return out
}

func toAssignmentResponse(a *model.Assignment) dto.AssignmentResponse {
	resp := dto.AssignmentResponse{
		ID:              a.AssignmentID,
		PatientID:       a.PatientID,
		DoctorID:        a.DoctorID,
		AssigneeStaffID: a.AssigneeStaffID,
		TaskType:        a.TaskType,
		Notes:           a.Notes,
		Status:          a.Status,
		CreatedAt:       formatTime(a.CreatedAt),
		UpdatedAt:       formatTime(a.UpdatedAt),
	}
	if a.Patient != nil {
		resp.PatientName = a.Patient.Name
	}
	if a.Doctor != nil {
		resp.DoctorName = a.Doctor.Name
	}
	if a.Assignee != nil {
		resp.AssigneeName = a.Assignee.Name
		resp.AssigneeRole = a.Assignee.Role
	}
	return resp
}

func toAssignmentResponses(list []model.Assignment) []dto.AssignmentResponse {
	out := make([]dto.AssignmentResponse, len(list))
	for i := range list {
		out[i] = toAssignmentResponse(&list[i])
	}
	return out
}

func toReportResponse(r *model.Report) dto.ReportResponse {
	resp := dto.ReportResponse{
		ID:               r.ReportID,
		PatientID:        r.PatientID,
		CreatedByStaffID: r.CreatedByStaffID,
		ReportType:       r.ReportType,
		ReportText:       r.ReportText,
		CreatedAt:        formatTime(r.CreatedAt),
	}
	if r.ImageFilename != nil && *r.ImageFilename != "" {
		resp.ImageFilename = *r.ImageFilename
		resp.ImageURL = uploadsPrefix + *r.ImageFilename
	}
	if r.CreatedBy != nil {
		resp.CreatedByName = r.CreatedBy.Name
		resp.CreatedByRole = r.CreatedBy.Role
	}
	return resp
}

func toReportResponses(list []model.Report) []dto.ReportResponse {
	out := make([]dto.ReportResponse, len(list))
	for i := range list {
		out[i] = toReportResponse(&list[i])
	}
	return out
}

func toStaffNotificationResponses(list []model.Notification) []dto.NotificationResponse {
	out := make([]dto.NotificationResponse, len(list))
	for i, n := range list {
		out[i] = dto.NotificationResponse{ID: n.NotificationID, Message: n.Message, IsRead: n.IsRead, CreatedAt: formatTime(n.CreatedAt)}
	}
	return out
}

func toPatientNotificationResponses(list []model.PatientNotification) []dto.NotificationResponse {
	out := make([]dto.NotificationResponse, len(list))
	for i, n := range list {
		out[i] = dto.NotificationResponse{ID: n.NotificationID, Message: n.Message, IsRead: n.IsRead, CreatedAt: formatTime(n.CreatedAt)}
	}
	return out
}
