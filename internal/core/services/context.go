package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/medagent/internal/core/domain"
)

// NoConditionsContext replaces the context block when retrieval finds nothing.
const NoConditionsContext = "No similar medical conditions found in the database."

// FallbackResponse is returned when the model produces no text.
const FallbackResponse = "Sorry, I could not generate a response."

// BuildMedicalContext formats matches as a numbered list in retrieval order.
func BuildMedicalContext(matches []domain.ConditionMatch) string {
	if len(matches) == 0 {
		return NoConditionsContext
	}

	lines := make([]string, len(matches))
	for i, m := range matches {
		lines[i] = fmt.Sprintf("%d. Disease: %s\n   Symptoms: %s", i+1, m.Label, m.Description)
	}
	return "Related medical conditions from database:\n" + strings.Join(lines, "\n\n")
}

// BuildSystemPrompt wraps a medical context block in the assistant instructions.
func BuildSystemPrompt(medicalContext string) string {
	return `You are a helpful medical assistant AI. Your role is to provide informative responses about medical symptoms and conditions based on the following medical knowledge database.

IMPORTANT DISCLAIMERS:
- Stay on topic, limit yourself to answering only about health topics, illnesses, symptoms, and diagnostic recommendations
- You are NOT a replacement for professional medical advice
- Always recommend a diagnosis to patient
- Your responses are for informational purposes only
- Never provide definitive diagnoses

MEDICAL KNOWLEDGE CONTEXT:
` + medicalContext + `

Based on this medical knowledge and the user's question, provide a helpful, informative response.`
}
