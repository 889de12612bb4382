package sae

import (
	"fmt"
	"slices"
)

// catalogSize is the number of residue classes in the feature catalog.
// Features whose ids agree modulo catalogSize share description and exemplars.
const catalogSize = 10

var featureDescriptions = [catalogSize]string{
	"Emotional expression (positive sentiment)",
	"Geographic locations and place names",
	"Mathematical operations and numbers",
	"Past tense verbs and temporal expressions",
	"Question formation and interrogative patterns",
	"Proper nouns and named entities",
	"Scientific terminology and concepts",
	"Social interaction and relationship terms",
	"Abstract reasoning and logic patterns",
	"Creative and artistic language",
}

var featureTopTokens = [catalogSize][]string{
	{"happy", "joy", "excited", "wonderful", "amazing"},
	{"Paris", "London", "Tokyo", "mountain", "river"},
	{"plus", "minus", "equals", "calculate", "number"},
	{"walked", "went", "happened", "was", "did"},
	{"what", "how", "when", "where", "why"},
	{"John", "Mary", "Smith", "Company", "University"},
	{"molecule", "theory", "experiment", "research", "data"},
	{"friend", "family", "together", "relationship", "team"},
	{"because", "therefore", "if", "then", "logic"},
	{"create", "imagine", "beautiful", "art", "design"},
}

var featureExamplePrompts = [catalogSize][]string{
	{"I'm feeling great today!", "What a wonderful surprise!"},
	{"The capital of France is", "Mountains are tall and"},
	{"2 + 2 equals", "Calculate the sum of"},
	{"Yesterday I walked to", "The event happened when"},
	{"What is the meaning of", "How do you solve"},
	{"Dr. Smith published", "Harvard University announced"},
	{"The molecule consists of", "Scientific research shows"},
	{"My friend and I", "Our team worked together"},
	{"This happens because", "If we assume that"},
	{"Let's create something", "The artist painted a"},
}

// residue maps any feature id onto a catalog row
func residue(featureID int) int {
	r := featureID % catalogSize
	if r < 0 {
		r += catalogSize
	}
	return r
}

// FeatureDescription returns the human-readable description of a feature
func FeatureDescription(featureID int) string {
	return featureDescriptions[residue(featureID)]
}

// FeatureTopTokens returns the tokens that most strongly activate a feature
func FeatureTopTokens(featureID int) []string {
	return slices.Clone(featureTopTokens[residue(featureID)])
}

// FeatureExamplePrompts returns prompts known to activate a feature
func FeatureExamplePrompts(featureID int) []string {
	return slices.Clone(featureExamplePrompts[residue(featureID)])
}

// FeatureResearchNotes returns the research note for a feature
func FeatureResearchNotes(featureID int) string {
	return fmt.Sprintf("Feature %d identified in SAE decomposition research", featureID)
}
