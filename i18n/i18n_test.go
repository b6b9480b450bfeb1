package i18n

import "testing"

func TestDetectLanguage(t *testing.T) {
	if DetectLanguage("en-US,en;q=0.9") != "en" {
		t.Fatalf("expected en")
	}
	if DetectLanguage("EN-gb") != "en" {
		t.Fatalf("expected en for EN-gb")
	}
	if DetectLanguage("uk-UA,uk;q=0.8") != "uk" {
		t.Fatalf("expected uk")
	}
	if DetectLanguage("fr-FR,fr;q=0.8") != "uk" {
		t.Fatalf("expected uk fallback for unsupported language")
	}
	if DetectLanguage("") != "uk" {
		t.Fatalf("expected default uk")
	}
}

func TestTranslations(t *testing.T) {
	if T("uk", "wrong_password") != "Невірний пароль" {
		t.Fatalf("unexpected uk translation: %q", T("uk", "wrong_password"))
	}
	if T("en", "wrong_password") != "Wrong password" {
		t.Fatalf("unexpected en translation: %q", T("en", "wrong_password"))
	}
	// unknown code -> fallback to code
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> fallback to uk translation if exists
	if T("es", "user_disabled") != "Акаунт заблоковано" {
		t.Fatalf("expected uk fallback for es lang")
	}
}

func TestEveryKindHasBothLanguages(t *testing.T) {
	for code := range translations["uk"] {
		if _, ok := translations["en"][code]; !ok {
			t.Errorf("code %q missing english translation", code)
		}
	}
	for code := range translations["en"] {
		if _, ok := translations["uk"][code]; !ok {
			t.Errorf("code %q missing ukrainian translation", code)
		}
	}
}
