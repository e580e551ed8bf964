package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

// Общие, не-доменные коды ошибок
const (
	// Системные и неизвестные ошибки
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"
	CodeUnknownError  ErrorCode = "UNKNOWN_ERROR"

	// Общие ошибки бизнес-логики (используются фабриками)
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"

	// Аутентификация и Авторизация (они сквозные)
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
)

// Доменные коды: рефералы, награды, бронирования
const (
	// Условная запись проиграла гонку (устаревший статус, уже выставленный
	// флаг, занятый реферальный код)
	CodeConditionFailed ErrorCode = "CONDITION_FAILED"

	// Недопустимый переход статуса бронирования
	CodeIllegalTransition ErrorCode = "ILLEGAL_TRANSITION"

	// Ошибка самого хранилища (сеть, права); операция не повторяется
	CodePersistenceError ErrorCode = "PERSISTENCE_ERROR"

	// Не удалось подобрать уникальный реферальный код за отведенные попытки
	CodeGenerationExhausted ErrorCode = "CODE_GENERATION_EXHAUSTED"
)
