// Package telemetry настраивает наблюдаемость CLI.
//
// Логирование — structured logging через slog; уровень и формат
// берутся из переменных окружения LOG_LEVEL и LOG_FORMAT.
// Метрики живут в самой библиотеке и отдаются командой listen
// через флаг --metrics-addr.
package telemetry
