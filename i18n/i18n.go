// Package i18n provides the translation catalog for user-facing messages.
// Ukrainian is the default language; English is available as a secondary.
// Unknown codes fall back to the code itself so missing translations are
// visible instead of blank.
package i18n

import "strings"

const defaultLang = "uk"

var supported = map[string]bool{
	"uk": true,
	"en": true,
}

// DetectLanguage picks a supported language from an Accept-Language header
// value (or any comma-separated language list). Falls back to Ukrainian.
func DetectLanguage(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		lang := strings.ToLower(strings.TrimSpace(part))
		if i := strings.IndexAny(lang, "-;"); i >= 0 {
			lang = lang[:i]
		}
		if supported[lang] {
			return lang
		}
	}
	return defaultLang
}

// T translates a message code for the given language. Unknown languages fall
// back to Ukrainian; unknown codes fall back to the code itself.
func T(lang, code string) string {
	msgs, ok := translations[lang]
	if !ok {
		msgs = translations[defaultLang]
	}
	if msg, ok := msgs[code]; ok {
		return msg
	}
	if msg, ok := translations[defaultLang][code]; ok {
		return msg
	}
	return code
}

var translations = map[string]map[string]string{
	"uk": {
		// auth error kinds
		"invalid_email":      "Невірний формат email",
		"user_not_found":     "Користувача з таким email не знайдено",
		"wrong_password":     "Невірний пароль",
		"invalid_credential": "Невірний email або пароль",
		"too_many_requests":  "Забагато спроб. Спробуйте пізніше",
		"user_disabled":      "Акаунт заблоковано",
		"email_in_use":       "Ця email адреса вже використовується",
		"weak_password":      "Пароль має бути мінімум 6 символів",
		"network_failure":    "Помилка мережі. Перевірте інтернет-з'єднання",
		"unknown":            "Помилка входу. Спробуйте ще раз",

		// client prompts and confirmations
		"fill_all_fields":      "Заповніть усі обов'язкові поля",
		"passwords_mismatch":   "Паролі не збігаються",
		"reset_email_required": "Введіть email для відновлення пароля",
		"reset_email_sent":     "Лист для зміни пароля надіслано!",
		"signed_out":           "Ви вийшли з акаунта",
		"post_publish_failed":  "Не вдалося опублікувати пост",
	},
	"en": {
		"invalid_email":      "Invalid email format",
		"user_not_found":     "No user found with this email",
		"wrong_password":     "Wrong password",
		"invalid_credential": "Invalid email or password",
		"too_many_requests":  "Too many attempts. Try again later",
		"user_disabled":      "Account is disabled",
		"email_in_use":       "This email address is already in use",
		"weak_password":      "Password must be at least 6 characters",
		"network_failure":    "Network error. Check your internet connection",
		"unknown":            "Sign-in failed. Please try again",

		"fill_all_fields":      "Fill in all required fields",
		"passwords_mismatch":   "Passwords do not match",
		"reset_email_required": "Enter an email to reset the password",
		"reset_email_sent":     "Password reset email sent!",
		"signed_out":           "You have signed out",
		"post_publish_failed":  "Could not publish the post",
	},
}
