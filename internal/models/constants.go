package models

const (
	ContextSeparator = "\n\n"

	// Returned by the chat service when no vector index has been built yet.
	NoIndexChatMessage = "Please upload documents first to start chatting."
)

var (
	StructureSystemPrompt = `You are an expert curriculum designer. Create a comprehensive course structure based on the provided document summaries.
The course should be detailed and cover all aspects of the material.`

	StructureUserTemplate = "Document Summary: %s\n\nGenerate a structured course curriculum in JSON format."

	ChapterSystemPrompt = `You are an expert professor. Write a detailed, comprehensive lecture note for the following chapter. Include examples, code snippets (if applicable), and deep explanations. Use Markdown format.`

	ChapterUserTemplate = "Chapter: %s\nTopics: %s\n\nContext from Documents:\n%s\n\nWrite the full chapter content."

	QuizSystemPrompt = `You are an exam creator. Create a multiple-choice quiz based on the provided chapter content to test the student's understanding.`

	QuizUserTemplate = "Chapter Content:\n%s\n\nGenerate a quiz in JSON format."

	AssignmentSystemPrompt = `You are a practical instructor. Create a hands-on assignment or project based on the provided chapter content. It should apply the concepts learned.`

	AssignmentUserTemplate = "Chapter Content:\n%s\n\nGenerate a practical assignment in JSON format."

	ChatSystemTemplate = `You are an assistant for a course generated from PDF documents. Use the following pieces of retrieved context to answer the question. If you don't know the answer, say that you don't know. Use three sentences maximum and keep the answer concise.

%s`
)
