package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/swasthya/medrec-api/internal/handler"
	"github.com/swasthya/medrec-api/internal/middleware"
	"github.com/swasthya/medrec-api/internal/model"
	"github.com/swasthya/medrec-api/internal/service/patient"
	"github.com/swasthya/medrec-api/internal/service/record"
	"github.com/swasthya/medrec-api/pkg/errors"
)

type Handler struct {
	patients patient.PatientService
	records  record.RecordService
}

func NewHandler(patients patient.PatientService, records record.RecordService) *Handler {
	return &Handler{patients: patients, records: records}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patientGroup := r.Group("/patient")
	{
		profile := patientGroup.Group("/profile")
		{
			profile.GET("", h.GetProfile)
			profile.GET("/personal", h.GetPersonalDetails)
			profile.GET("/basic", h.GetBasicDetails)
			profile.GET("/emergency-contacts", h.GetEmergencyContacts)
			profile.GET("/data-logs", h.GetDataLogs)

			profile.PATCH("/shc-visibility", h.ToggleVisibility)
			profile.PATCH("/photo", h.UpdatePhoto)
			profile.PATCH("/lifestyle", h.UpdateLifestyle)
			profile.PATCH("/email", h.UpdateEmail)
			profile.PATCH("/phone", h.UpdatePhone)
			profile.PATCH("/password", h.UpdatePassword)

			profile.POST("/emergency-contact", h.AddEmergencyContact)
			profile.DELETE("/emergency-contact", h.RemoveEmergencyContact)
		}

		patientGroup.POST("/createrecord", h.CreateRecord)
		patientGroup.POST("/records", h.ListRecords)

		records := patientGroup.Group("/records/:record_id")
		{
			records.PATCH("/visibility", h.ToggleRecordVisibility)
			records.POST("/hospitalization", h.AddHospitalization)
			records.GET("/hospitalization", h.GetHospitalization)
			records.POST("/surgery", h.AddSurgery)
			records.GET("/surgery", h.GetSurgery)
			records.GET("/documents", h.GetDocuments)
			records.POST("/prescription", h.AddPrescription)
			records.DELETE("/prescription", h.RemovePrescription)
			records.POST("/lab-results", h.AddLabResults)
			records.DELETE("/lab-results", h.RemoveLabResults)
		}
	}
}

func claims(c *gin.Context) (model.TokenClaims, bool) {
	tc, ok := middleware.ClaimsFromContext(c)
	if !ok {
		handler.Error(c, errors.Unauthenticated("authorization token required", nil))
	}
	return tc, ok
}

// codes pulls the third-party patient identifiers off the query string.
func codes(c *gin.Context) (shc, qr string) {
	return c.Query("shc_code"), c.Query("qr_code")
}

func (h *Handler) GetProfile(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	shc, qr := codes(c)
	profile, err := h.patients.Profile(c.Request.Context(), tc, shc, qr)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) GetPersonalDetails(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	shc, qr := codes(c)
	details, err := h.patients.PersonalDetails(c.Request.Context(), tc, shc, qr)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *Handler) GetBasicDetails(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	shc, qr := codes(c)
	details, err := h.patients.BasicDetails(c.Request.Context(), tc, shc, qr)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *Handler) GetEmergencyContacts(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	shc, qr := codes(c)
	contacts, err := h.patients.EmergencyContacts(c.Request.Context(), tc, shc, qr)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"emergency_contacts": contacts})
}

func (h *Handler) GetDataLogs(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	shc, qr := codes(c)
	logs, err := h.patients.DataLogs(c.Request.Context(), tc, shc, qr)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data_logs": logs})
}

func (h *Handler) ToggleVisibility(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	var req struct {
		CurVisibility *bool `json:"curVisibility" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.Validation("curVisibility is required"))
		return
	}
	next, err := h.patients.ToggleVisibility(c.Request.Context(), tc, *req.CurVisibility)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "Visibility updated successfully", gin.H{"visibility": next})
}

func (h *Handler) UpdatePhoto(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	var req struct {
		NewPhoto string `json:"newPhoto" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.Validation("newPhoto is required"))
		return
	}
	if err := h.patients.UpdatePhoto(c.Request.Context(), tc, req.NewPhoto); err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "Photo updated successfully", nil)
}

func (h *Handler) UpdateLifestyle(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	var req struct {
		NewLifestyle *model.Lifestyle `json:"newLifestyle" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.Validation("newLifestyle is required"))
		return
	}
	if err := h.patients.UpdateLifestyle(c.Request.Context(), tc, *req.NewLifestyle); err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "Lifestyle updated successfully", nil)
}

func (h *Handler) UpdateEmail(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	var req struct {
		NewEmail string `json:"newEmail" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.Validation("a valid newEmail is required"))
		return
	}
	if err := h.patients.UpdateEmail(c.Request.Context(), tc, req.NewEmail); err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "Email updated successfully", nil)
}

func (h *Handler) UpdatePhone(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	var req struct {
		NewPhone string `json:"newPhone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.Validation("newPhone is required"))
		return
	}
	if err := h.patients.UpdatePhone(c.Request.Context(), tc, req.NewPhone); err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "Phone number updated successfully", nil)
}

func (h *Handler) UpdatePassword(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	var req struct {
		NewPassword string `json:"newPassword" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.Validation("newPassword must be at least 8 characters"))
		return
	}
	if err := h.patients.UpdatePassword(c.Request.Context(), tc, req.NewPassword); err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "Password updated successfully", nil)
}

func (h *Handler) AddEmergencyContact(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	var req struct {
		NewEmergencyContact *struct {
			FullName string `json:"full_name" binding:"required"`
			PhoneNo  string `json:"phone_no" binding:"required"`
			Relation string `json:"relation"`
		} `json:"newEmergencyContact" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.Validation("newEmergencyContact with full_name and phone_no is required"))
		return
	}
	contact := &model.EmergencyContact{
		FullName: req.NewEmergencyContact.FullName,
		PhoneNo:  req.NewEmergencyContact.PhoneNo,
		Relation: req.NewEmergencyContact.Relation,
	}
	created, err := h.patients.AddEmergencyContact(c.Request.Context(), tc, contact)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, "Emergency contact added successfully", created)
}

func (h *Handler) RemoveEmergencyContact(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	var req struct {
		EmgID string `json:"emg_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.Validation("emg_id is required"))
		return
	}
	emgID, err := uuid.Parse(req.EmgID)
	if err != nil {
		handler.Error(c, errors.Validation("emg_id must be a valid uuid"))
		return
	}
	if err := h.patients.RemoveEmergencyContact(c.Request.Context(), tc, emgID); err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "Emergency contact removed successfully", nil)
}

// createRecordRequest wraps the record payload with the target-patient codes
// third-party writers must supply.
type createRecordRequest struct {
	SHCCode string `json:"shc_code"`
	QRCode  string `json:"qr_code"`

	BasicDetails    *model.RecordBasicDetails  `json:"basicDetails" binding:"required"`
	Hospitalization *model.HospitalizationBody `json:"hospitalizationDetails"`
	Surgery         *model.SurgeryBody         `json:"surgeryDetails"`
	Documents       *model.DocumentsBody       `json:"documents"`
}

func (h *Handler) CreateRecord(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	var req createRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.Validation("basicDetails with diagnosis_name is required"))
		return
	}
	input := &model.CreateRecordInput{
		BasicDetails:    req.BasicDetails,
		Hospitalization: req.Hospitalization,
		Surgery:         req.Surgery,
		Documents:       req.Documents,
	}
	created, err := h.records.CreateRecord(c.Request.Context(), tc, req.SHCCode, req.QRCode, input)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, "Record created successfully", created)
}

type listRecordsRequest struct {
	SHCCode       string `json:"shc_code"`
	QRCode        string `json:"qr_code"`
	SearchQuery   string `json:"searchQuery"`
	SearchOptions struct {
		EntryType string `json:"entry_type"`
		SortBy    string `json:"sort_by"`
	} `json:"searchOptions"`
}

func (h *Handler) ListRecords(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	var req listRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.Validation("invalid request body"))
		return
	}
	filter := model.RecordFilter{
		EntryType: req.SearchOptions.EntryType,
		Search:    req.SearchQuery,
		SortBy:    model.SortBy(req.SearchOptions.SortBy),
	}
	summaries, err := h.records.ListRecords(c.Request.Context(), tc, req.SHCCode, req.QRCode, filter)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": summaries})
}

func recordID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("record_id"))
	if err != nil {
		handler.Error(c, errors.Validation("record_id must be a valid uuid"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) ToggleRecordVisibility(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	id, ok := recordID(c)
	if !ok {
		return
	}
	var req struct {
		CurVisibility *bool `json:"curVisibility" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.Validation("curVisibility is required"))
		return
	}
	next, err := h.records.ToggleVisibility(c.Request.Context(), tc, id, *req.CurVisibility)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "Record visibility updated successfully", gin.H{"visibility": next})
}

func (h *Handler) AddHospitalization(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	id, ok := recordID(c)
	if !ok {
		return
	}
	var body model.HospitalizationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		handler.Error(c, errors.Validation("hospitalization reason is required"))
		return
	}
	hosp, err := h.records.AddHospitalization(c.Request.Context(), tc, id, &body)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, "Hospitalization details added successfully", hosp)
}

func (h *Handler) GetHospitalization(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	id, ok := recordID(c)
	if !ok {
		return
	}
	hosp, err := h.records.GetHospitalization(c.Request.Context(), tc, id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, hosp)
}

func (h *Handler) AddSurgery(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	id, ok := recordID(c)
	if !ok {
		return
	}
	var body model.SurgeryBody
	if err := c.ShouldBindJSON(&body); err != nil {
		handler.Error(c, errors.Validation("surgery type is required"))
		return
	}
	surg, err := h.records.AddSurgery(c.Request.Context(), tc, id, &body)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, "Surgery details added successfully", surg)
}

func (h *Handler) GetSurgery(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	id, ok := recordID(c)
	if !ok {
		return
	}
	surg, err := h.records.GetSurgery(c.Request.Context(), tc, id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, surg)
}

func (h *Handler) GetDocuments(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	id, ok := recordID(c)
	if !ok {
		return
	}
	docs, err := h.records.GetDocuments(c.Request.Context(), tc, id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *Handler) AddPrescription(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	id, ok := recordID(c)
	if !ok {
		return
	}
	var req struct {
		PrescriptionURL string `json:"prescription_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.Validation("prescription_url is required"))
		return
	}
	docs, err := h.records.AddPrescription(c.Request.Context(), tc, id, req.PrescriptionURL)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "Prescription added successfully", docs)
}

func (h *Handler) RemovePrescription(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	id, ok := recordID(c)
	if !ok {
		return
	}
	docs, err := h.records.RemovePrescription(c.Request.Context(), tc, id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "Prescription removed successfully", docs)
}

func (h *Handler) AddLabResults(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	id, ok := recordID(c)
	if !ok {
		return
	}
	var req struct {
		LabResultsURL string `json:"lab_results_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.Validation("lab_results_url is required"))
		return
	}
	docs, err := h.records.AddLabResults(c.Request.Context(), tc, id, req.LabResultsURL)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "Lab results added successfully", docs)
}

func (h *Handler) RemoveLabResults(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	id, ok := recordID(c)
	if !ok {
		return
	}
	docs, err := h.records.RemoveLabResults(c.Request.Context(), tc, id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "Lab results removed successfully", docs)
}
