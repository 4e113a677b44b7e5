package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mediscan_backend/internal/dto"
	"mediscan_backend/internal/middleware"
	"mediscan_backend/internal/services"
	"mediscan_backend/pkg/apperrors"
)

// maxImageBytes caps uploads at 10 MB, matching the inference backend.
const maxImageBytes = 10 << 20

type AnalysisHandler struct {
	*BaseHandler
	analysisService services.AnalysisService
}

func NewAnalysisHandler(base *BaseHandler, analysisService services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		BaseHandler:     base,
		analysisService: analysisService,
	}
}

func (h *AnalysisHandler) RegisterRoutes(rg *gin.RouterGroup) {
	analysis := rg.Group("")
	analysis.Use(middleware.AuthMiddleware())
	{
		analysis.POST("/analyze", h.Analyze)
	}
}

// Analyze godoc
// @Summary      Run one analysis, consuming one scan
// @Description  Accepts either a multipart image upload (imageFile + modelId)
// @Description  or a JSON body with structured values for CBC-style models.
// @Tags         analysis
// @Accept       mpfd
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.AnalyzeResponse
// @Failure      402  {object}  apperrors.ErrorResponse
// @Failure      502  {object}  apperrors.ErrorResponse
// @Router       /analyze [post]
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		h.analyzeImage(c, userID)
		return
	}
	h.analyzeValues(c, userID)
}

func (h *AnalysisHandler) analyzeImage(c *gin.Context, userID string) {
	modelID := c.PostForm("modelId")
	if modelID == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("modelId is required"))
		return
	}

	fileHeader, err := c.FormFile("imageFile")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("imageFile is required"))
		return
	}
	if fileHeader.Size > maxImageBytes {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Image exceeds the 10 MB limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}

	resp, err := h.analysisService.AnalyzeImage(c.Request.Context(), userID, modelID, fileHeader.Filename, image)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AnalysisHandler) analyzeValues(c *gin.Context, userID string) {
	var req dto.ValuesAnalyzeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.analysisService.AnalyzeValues(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
