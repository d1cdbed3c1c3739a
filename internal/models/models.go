package models

// Chunk is a bounded span of extracted document text with its provenance.
type Chunk struct {
	Content    string
	PageNumber int
	ChunkID    int
}

// ChunkEmbedding is a chunk together with its embedding vector, ready for indexing.
type ChunkEmbedding struct {
	Content        string
	Embedding      []float32
	SourceFilename string
	PageNumber     int
	ChunkID        int
}

// SearchResult is one k-NN hit returned by the vector index.
type SearchResult struct {
	Content    string
	Similarity float32
	Metadata   map[string]string
}

// Chapter is one module of a generated course.
type Chapter struct {
	Title       string   `json:"title" describe:"Title of the chapter" validate:"required"`
	Description string   `json:"description" describe:"Brief description of what will be covered"`
	Topics      []string `json:"topics" describe:"List of sub-topics in this chapter" validate:"required,min=1"`
}

// CourseStructure is the full curriculum produced from the uploaded documents.
type CourseStructure struct {
	CourseTitle string    `json:"course_title" describe:"Title of the course" validate:"required"`
	Modules     []Chapter `json:"modules" describe:"List of chapters/modules in the course" validate:"required,min=1,dive"`
}

type QuizQuestion struct {
	Question      string   `json:"question" describe:"The question text" validate:"required"`
	Options       []string `json:"options" describe:"4 possible answers" validate:"required,len=4"`
	CorrectAnswer int      `json:"correct_answer" describe:"Index of the correct answer (0-3)" validate:"gte=0,lte=3"`
	Explanation   string   `json:"explanation" describe:"Explanation of why the answer is correct"`
}

type Quiz struct {
	Questions []QuizQuestion `json:"questions" describe:"List of 5-10 quiz questions" validate:"required,min=1,dive"`
}

type Assignment struct {
	Title       string   `json:"title" describe:"Title of the assignment" validate:"required"`
	Description string   `json:"description" describe:"Detailed instructions for the assignment"`
	Tasks       []string `json:"tasks" describe:"Step-by-step tasks to complete" validate:"required,min=1"`
}

// ChapterMaterial bundles the generated lecture content with its assessments.
type ChapterMaterial struct {
	Content     string     `json:"content"`
	ContentHTML string     `json:"content_html"`
	Quiz        Quiz       `json:"quiz"`
	Assignment  Assignment `json:"assignment"`
}
