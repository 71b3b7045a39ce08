package listings

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/venuelink/marketplace-backend/api/validators"
	"github.com/venuelink/marketplace-backend/internal/mockstore"
	pkgerrors "github.com/venuelink/marketplace-backend/pkg/errors"
)

// maxSubmissionBytes bounds one multipart submission in memory.
const maxSubmissionBytes = 64 << 20

type listingForm struct {
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description" validate:"required,max=5000"`
	Price        string `json:"price" validate:"required"`
	Status       string `json:"status" validate:"required"`
	Category     string `json:"category" validate:"required"`
	Condition    string `json:"condition" validate:"required"`
	Location     string `json:"location"`
	ContactPhone string `json:"contact_phone" validate:"omitempty,max=32"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	SellerType   string `json:"seller_type" validate:"required"`
}

// decodeSubmission parses one multipart create/update request into the store
// input: validated scalar fields, the retained photo URL set, and the staged
// file parts.
func decodeSubmission(r *http.Request) (mockstore.SubmissionInput, error) {
	var in mockstore.SubmissionInput

	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		return in, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}

	form := listingForm{
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		Price:        r.FormValue("price"),
		Status:       r.FormValue("status"),
		Category:     r.FormValue("category"),
		Condition:    r.FormValue("condition"),
		Location:     r.FormValue("location"),
		ContactPhone: r.FormValue("contact_phone"),
		ContactEmail: r.FormValue("contact_email"),
		SellerType:   r.FormValue("seller_type"),
	}
	if err := validators.Struct(form); err != nil {
		return in, err
	}

	in.Title = form.Title
	in.Description = form.Description
	in.Price = form.Price
	in.Status = form.Status
	in.Category = form.Category
	in.Condition = form.Condition
	in.ContactPhone = form.ContactPhone
	in.ContactEmail = form.ContactEmail
	in.SellerType = form.SellerType
	if loc := strings.TrimSpace(form.Location); loc != "" {
		in.Location = &loc
	}

	if raw := r.FormValue("retained_photos"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &in.RetainedPhotoURLs); err != nil {
			return in, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid retained_photos field")
		}
	}

	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["photos"] {
			upload, err := readUpload(header)
			if err != nil {
				return in, err
			}
			in.Photos = append(in.Photos, upload)
		}
		if parts := r.MultipartForm.File["video"]; len(parts) > 0 {
			upload, err := readUpload(parts[0])
			if err != nil {
				return in, err
			}
			in.Video = &upload
		}
	}

	return in, nil
}

func readUpload(header *multipart.FileHeader) (mockstore.FileUpload, error) {
	file, err := header.Open()
	if err != nil {
		return mockstore.FileUpload{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable file part")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return mockstore.FileUpload{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable file part")
	}
	return mockstore.FileUpload{
		FileName: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Content:  content,
	}, nil
}
