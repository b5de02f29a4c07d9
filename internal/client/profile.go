package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

func (c *Client) Profile(ctx context.Context, token string) *Result {
	if token == "" {
		return unauthorized()
	}
	return c.getJSON(ctx, "/user/profile", token, nil)
}

type ProfileUpdateRequest struct {
	Name        string
	Mobile      string
	CountryCode string
	Dob         string
	Gender      string
	Address     string
}

// UpdateProfile data decodes into models.KYCResult.
func (c *Client) UpdateProfile(ctx context.Context, token string, req ProfileUpdateRequest) *Result {
	if token == "" {
		return unauthorized()
	}
	form := url.Values{}
	form.Set("name", req.Name)
	form.Set("mobile", req.Mobile)
	form.Set("countryCode", req.CountryCode)
	form.Set("dob", req.Dob)
	form.Set("gender", req.Gender)
	form.Set("address", req.Address)
	return c.sendForm(ctx, http.MethodPut, "/user/profile/update", token, form)
}

type KYCLevel1Request struct {
	Name        string
	Dob         string
	CountryCode string
}

// SubmitKYCLevel1 data decodes into models.KYCResult.
func (c *Client) SubmitKYCLevel1(ctx context.Context, token string, req KYCLevel1Request) *Result {
	if token == "" {
		return unauthorized()
	}
	form := url.Values{}
	form.Set("name", req.Name)
	form.Set("dob", req.Dob)
	form.Set("countryCode", req.CountryCode)
	return c.sendForm(ctx, http.MethodPut, "/user/profile/update", token, form)
}

// Document is one file of a KYC upload.
type Document struct {
	Name   string
	Reader io.Reader
}

// UploadKYCDocuments sends the proof of identity and proof of address as a
// multipart form. Data decodes into models.KYCResult.
func (c *Client) UploadKYCDocuments(ctx context.Context, token string, poi, poa Document) *Result {
	if token == "" {
		return unauthorized()
	}
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, part := range []struct {
		field string
		doc   Document
	}{{"poi", poi}, {"poa", poa}} {
		fw, err := w.CreateFormFile(part.field, part.doc.Name)
		if err != nil {
			return &Result{Err: fmt.Errorf("create %s part: %w", part.field, err), Message: GenericFailure}
		}
		if _, err := io.Copy(fw, part.doc.Reader); err != nil {
			return &Result{Err: fmt.Errorf("copy %s: %w", part.field, err), Message: GenericFailure}
		}
	}
	if err := w.Close(); err != nil {
		return &Result{Err: fmt.Errorf("close multipart: %w", err), Message: GenericFailure}
	}
	return c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/user/compliance/upload/doc",
		token:       token,
		body:        &buf,
		contentType: w.FormDataContentType(),
	})
}
