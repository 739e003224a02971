// Package cli реализует команды утилиты krolik.
//
// # Обзор
//
// CLI — отладочная утилита для работы с очередями напрямую,
// без написания кода: опубликовать тело сообщения, послушать
// очередь. Использует публичный API библиотеки krolik, внутрь
// соединения не лезет.
//
// # Команды
//
//   - send QUEUE    — публикация JSON-тела из stdin или флага --body
//   - listen QUEUE  — объявление очереди и печать тел сообщений в stdout
//
// Тела пишутся в stdout, логи — в stderr. Это позволяет использовать
// pipe: krolik listen Order | jq .
//
// Каждая команда создаётся через фабричную функцию (NewSendCmd и т.д.),
// принимающую cfgFn — замыкание для ленивой сборки krolik.Config
// после парсинга PersistentFlags.
package cli
