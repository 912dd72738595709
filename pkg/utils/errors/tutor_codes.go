package errors

// Tutor service code: 21 (business range 20-79).

var (
	// Request errors (category 01)
	ErrTutorInvalidRequest = NewRequestErr(ServiceTutor, 1, "Invalid chat request", "질문 요청이 올바르지 않습니다")

	// Permission errors (category 03)
	ErrTutorClassMismatch = NewPermissionErr(ServiceTutor, 1, "Student is not enrolled in this class", "해당 학급에 등록된 학생이 아닙니다")

	// Resource errors (category 04)
	ErrTutorStudentNotFound  = NewNotFoundErr(ServiceTutor, 1, "Student not found", "학생을 찾을 수 없습니다")
	ErrTutorClassNotFound    = NewNotFoundErr(ServiceTutor, 2, "Class not found", "학급을 찾을 수 없습니다")
	ErrTutorNoQuestions      = NewNotFoundErr(ServiceTutor, 3, "No questions recorded for this class", "이 학급에 기록된 질문이 없습니다")
	ErrTutorDocumentNotFound = NewNotFoundErr(ServiceTutor, 4, "Class has no document", "학급에 등록된 자료가 없습니다")

	// Rate limit errors (category 06)
	ErrTutorRateLimited = NewRateLimitErr(ServiceTutor, 1, "Too many questions, please slow down", "질문이 너무 많습니다. 잠시 후 다시 시도하세요")

	// Internal errors (category 07)
	ErrTutorQuestionPersist = NewInternalErr(ServiceTutor, 1, "Failed to save question", "질문을 저장하지 못했습니다")

	// Upstream text-generation errors (category 10)
	ErrTutorClassification     = NewUpstreamErr(ServiceTutor, 1, "Failed to classify question", "질문 유형을 분류하지 못했습니다")
	ErrTutorResponseGeneration = NewUpstreamErr(ServiceTutor, 2, "Failed to generate AI response", "AI 응답을 생성하지 못했습니다")
	ErrTutorSummaryGeneration  = NewUpstreamErr(ServiceTutor, 3, "Failed to generate class summary", "학급 요약을 생성하지 못했습니다")
)
