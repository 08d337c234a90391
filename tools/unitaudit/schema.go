package main

// SectionType is the discriminator carried in every section's "type" field.
type SectionType string

const (
	SectionVocab      SectionType = "vocab"
	SectionDialogue   SectionType = "dialogue"
	SectionGrammar    SectionType = "grammar"
	SectionQuiz       SectionType = "quiz"
	SectionFlashcards SectionType = "flashcards"
	SectionCulture    SectionType = "culture"
)

// Category tags every Issue. Section-specific findings reuse the SectionType value.
type Category string

const (
	CategoryGeneral        Category = "general"
	CategoryMissingSection Category = "missing-section"
	CategoryForbiddenName  Category = "forbidden-name"
	CategoryEmptyString    Category = "empty-string"
	CategoryParse          Category = "parse"
	CategoryMissingFile    Category = "missing-file"
	CategoryOrphanFile     Category = "orphan-file"
)

func categoryFor(t SectionType) Category {
	return Category(t)
}

// isCrossReference reports whether the category belongs to the manifest check
// rather than to a single unit file.
func (c Category) isCrossReference() bool {
	return c == CategoryMissingFile || c == CategoryOrphanFile
}

// unitFields are the top-level fields every unit document must carry.
var unitFields = []string{"title", "intro", "estimatedTime", "sections"}

// unitTextFields must be non-empty strings when present.
var unitTextFields = []string{"title", "intro", "estimatedTime"}

// requiredSections must each appear at least once per unit. Culture is optional.
var requiredSections = []SectionType{
	SectionFlashcards,
	SectionQuiz,
	SectionVocab,
	SectionDialogue,
	SectionGrammar,
}

var vocabItemFields = []string{"japanese", "reading", "romaji", "chinese"}

// legacyCardFields mark flashcards still using the old front/back shape.
var legacyCardFields = []string{"front", "back"}

// listSchema describes a required array inside a section or entry.
type listSchema struct {
	Key     string
	Fields  []string
	Context string
	Nested  *listSchema
}

// sectionSchema describes one section variant.
type sectionSchema struct {
	Type   SectionType
	Fields []string
	List   *listSchema
}

var sectionSchemas = map[SectionType]sectionSchema{
	SectionVocab: {
		Type:   SectionVocab,
		Fields: []string{"title"},
		List: &listSchema{
			Key:     "items",
			Fields:  vocabItemFields,
			Context: "japanese",
		},
	},
	SectionDialogue: {
		Type:   SectionDialogue,
		Fields: []string{"title", "scene"},
		List: &listSchema{
			Key:     "lines",
			Fields:  []string{"speaker", "japanese", "chinese"},
			Context: "japanese",
		},
	},
	SectionGrammar: {
		Type:   SectionGrammar,
		Fields: []string{"title"},
		List: &listSchema{
			Key:     "points",
			Fields:  []string{"pattern", "meaning", "structure"},
			Context: "pattern",
			Nested: &listSchema{
				Key:     "examples",
				Fields:  []string{"japanese", "chinese"},
				Context: "japanese",
			},
		},
	},
	SectionQuiz: {
		Type:   SectionQuiz,
		Fields: []string{"title"},
		List: &listSchema{
			Key:     "questions",
			Fields:  []string{"question", "options", "correct", "explanation"},
			Context: "question",
		},
	},
	SectionFlashcards: {
		Type:   SectionFlashcards,
		Fields: []string{"title"},
		List: &listSchema{
			Key:     "cards",
			Fields:  vocabItemFields,
			Context: "japanese",
		},
	},
	SectionCulture: {
		Type:   SectionCulture,
		Fields: []string{"title", "content"},
	},
}

const (
	quizOptionCount = 4
	quizCorrectMin  = 0
	quizCorrectMax  = quizOptionCount - 1
)
