package service

import "fmt"

// extractionPrompt asks the model to turn messy extracted resume text into
// the structured JSON shape consumed by resume.ParseStructured.
func extractionPrompt(resumeText string) string {
	return fmt.Sprintf(`You are an expert resume parser. Extract structured information from the following resume text.
The text may be messy due to 2 columns PDF extraction. Please parse it carefully and return a clean JSON object.

Resume Text:
%s

Return your answer STRICTLY in JSON format with this schema:
{
  "skills": ["<skill name>", ...],
  "education": [{"degree": "<degree or certification>", "institution": "<university or college name>"}, ...],
  "experience": [{"title": "<job title or role>", "company": "<company or organization>", "description": "<responsibilities and achievements>"}, ...],
  "projects": [{"name": "<project name>", "description": "<project description>", "technologies": "<technologies used>"}, ...],
  "summary": "<candidate bio if present>"
}

Important:
- Extract ALL skills mentioned (technical, programming languages, frameworks, tools, soft skills) as plain names.
- For education, include degree and institution.
- For experience, include job title and key responsibilities.
- For projects, include project name, description, and technologies used.
- If a field is not found, use appropriate default values (empty string or empty list).

Return ONLY the JSON object, no additional text.`, resumeText)
}
