package notifications

type TemplateResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Subject      string   `json:"subject"`
	Body         string   `json:"body"`
	Placeholders []string `json:"placeholders"`
}

// PreviewRequest overrides sample values; every field is optional.
type PreviewRequest struct {
	Data map[string]string `json:"data"`
}

type TestEmailRequest struct {
	Email string            `json:"email" binding:"required,email"`
	Name  string            `json:"name" binding:"omitempty,max=255"`
	Data  map[string]string `json:"data"`
}

func (t EmailTemplate) ToResponse() TemplateResponse {
	return TemplateResponse{
		ID:           t.ID,
		Name:         t.Name,
		Description:  t.Description,
		Subject:      t.Subject,
		Body:         t.Body,
		Placeholders: t.Placeholders(),
	}
}

func mergeSampleData(overrides map[string]string) map[string]string {
	data := SampleData()
	for k, v := range overrides {
		data[k] = v
	}
	return data
}
