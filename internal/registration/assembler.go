package registration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"

	"github.com/blank122/alumni-link-wizard/internal/wizard"
)

// BuildPayload serializes a collected form into the multipart body the
// registration endpoint expects. Scalars become plain parts, catalog skill
// selections repeated parts, custom-skill lists single JSON-string parts
// (omitted entirely when empty), and the certificate a binary file part
// (omitted when absent).
func BuildPayload(form *wizard.FormData) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	for _, key := range wizard.ScalarFieldNames() {
		if err := mw.WriteField(key, form.Get(key)); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", key, err)
		}
	}

	for _, id := range form.TechnicalSkills() {
		if err := mw.WriteField(wizard.FieldTechnicalSkills, id); err != nil {
			return nil, "", fmt.Errorf("write technical skill part: %w", err)
		}
	}
	for _, id := range form.SoftSkills() {
		if err := mw.WriteField(wizard.FieldSoftSkills, id); err != nil {
			return nil, "", fmt.Errorf("write soft skill part: %w", err)
		}
	}

	if err := writeJSONList(mw, wizard.FieldCustomTechSkills, form.CustomTechnicalSkills()); err != nil {
		return nil, "", err
	}
	if err := writeJSONList(mw, wizard.FieldCustomSoftSkills, form.CustomSoftSkills()); err != nil {
		return nil, "", err
	}

	if cert := form.Certificate(); cert != nil {
		part, err := mw.CreateFormFile(wizard.FieldCertFile, cert.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("create certificate part: %w", err)
		}
		if _, err := part.Write(cert.Content); err != nil {
			return nil, "", fmt.Errorf("write certificate part: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize payload: %w", err)
	}
	return body, mw.FormDataContentType(), nil
}

// writeJSONList writes a list as one JSON-encoded string part; empty lists
// produce no part at all rather than an encoded empty array.
func writeJSONList(mw *multipart.Writer, key string, values []string) error {
	if len(values) == 0 {
		return nil
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := mw.WriteField(key, string(encoded)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
