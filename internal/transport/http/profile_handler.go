package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tradevault/tradevault-api/internal/media"
	"github.com/tradevault/tradevault-api/internal/repository/ports"
	"github.com/tradevault/tradevault-api/internal/service"
	"github.com/tradevault/tradevault-api/internal/util"
)

type ProfileHandler struct {
	kyc *service.KYCService
}

func RegisterProfile(e *echo.Echo, auth *service.AuthService, kyc *service.KYCService) {
	handler := &ProfileHandler{kyc: kyc}

	protected := e.Group("/api/v1/users/me", RequireAuth(auth))
	protected.GET("/profile", handler.getProfile)
	protected.PUT("/profile", handler.updateProfile)
	protected.POST("/kyc/documents", handler.uploadDocument)
}

func (h *ProfileHandler) getProfile(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	profile, err := h.kyc.GetProfile(c.Request().Context(), user.ID)
	if err != nil {
		c.Logger().Errorf("get profile: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load profile"))
	}
	return c.JSON(http.StatusOK, util.Envelope{"profile": profile})
}

func (h *ProfileHandler) updateProfile(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	var req struct {
		FullName          *string `json:"full_name"`
		FatherName        *string `json:"father_name"`
		MotherName        *string `json:"mother_name"`
		NomineeName       *string `json:"nominee_name"`
		Phone             *string `json:"phone"`
		Aadhaar           *string `json:"aadhaar"`
		PAN               *string `json:"pan"`
		AccountHolderName *string `json:"account_holder_name"`
		AccountNumber     *string `json:"account_number"`
		IFSCCode          *string `json:"ifsc_code"`
		UPIID             *string `json:"upi_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	profile, err := h.kyc.UpdateProfile(c.Request().Context(), user.ID, ports.ProfileUpdate{
		FullName:          req.FullName,
		FatherName:        req.FatherName,
		MotherName:        req.MotherName,
		NomineeName:       req.NomineeName,
		Phone:             req.Phone,
		Aadhaar:           req.Aadhaar,
		PAN:               req.PAN,
		AccountHolderName: req.AccountHolderName,
		AccountNumber:     req.AccountNumber,
		IFSCCode:          req.IFSCCode,
		UPIID:             req.UPIID,
	})
	if err != nil {
		c.Logger().Errorf("update profile: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("unable to update profile"))
	}
	return c.JSON(http.StatusOK, util.Envelope{"profile": profile})
}

func (h *ProfileHandler) uploadDocument(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	kind := c.FormValue("kind")
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("file is required"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("unable to read file"))
	}
	defer file.Close()

	url, err := h.kyc.UploadDocument(c.Request().Context(), user.ID, kind, media.Upload{
		Reader:      file,
		Size:        fileHeader.Size,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownDocumentKind):
			return c.JSON(http.StatusBadRequest, util.Error("unknown document kind"))
		case errors.Is(err, media.ErrNotAnImage):
			return c.JSON(http.StatusBadRequest, util.Error("file must be a JPEG, PNG, GIF, or WebP image"))
		case errors.Is(err, media.ErrImageTooBig):
			return c.JSON(http.StatusBadRequest, util.Error("image exceeds size limits"))
		default:
			c.Logger().Errorf("upload document: %v", err)
			return c.JSON(http.StatusInternalServerError, util.Error("unable to store document"))
		}
	}
	return c.JSON(http.StatusCreated, util.Envelope{"url": url, "kind": kind})
}
