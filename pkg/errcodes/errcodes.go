package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"

	// Сценарий сканирования
	RetryExhausted  failure.ErrorCode = "RetryExhausted"  // Все попытки операции исчерпаны
	LoginFailed     failure.ErrorCode = "LoginFailed"     // После логина нет признака "My Club"
	ElementNotFound failure.ErrorCode = "ElementNotFound" // Нужного элемента нет на странице

	// Хранилище и настройки
	StateCorrupted  failure.ErrorCode = "StateCorrupted"
	InvalidSettings failure.ErrorCode = "InvalidSettings"
	InvalidFilter   failure.ErrorCode = "InvalidFilter"
)
