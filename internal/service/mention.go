package service

import (
	"regexp"

	"github.com/ignatzorin/forum-backend/internal/validation"
)

// mentionPattern ловит @username в свободном тексте. Допустимы буквы, цифры
// и подчёркивание; перед @ не должно стоять словесного символа, чтобы не
// срабатывать на email-адресах.
var mentionPattern = regexp.MustCompile(`(?:^|[^A-Za-z0-9_@])@([A-Za-z0-9_]+)`)

// ExtractMentions извлекает кандидатов в упоминания из текста.
// Возвращает имена без дубликатов в порядке первого появления, регистр
// сохраняется как в тексте. Функция чистая: ни сети, ни хранилища.
func ExtractMentions(text string) []string {
	if text == "" {
		return nil
	}

	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	var usernames []string

	for _, match := range matches {
		name := match[1]
		if len(name) < validation.MinUsernameLength || len(name) > validation.MaxUsernameLength {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		usernames = append(usernames, name)
	}

	return usernames
}
