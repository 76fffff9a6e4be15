package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Settings holds the boilerplate text and identifiers merged into exported documents
type Settings struct {
	OfficeName     string `json:"officeName" yaml:"officeName"`
	Location       string `json:"location" yaml:"location"`
	Date           string `json:"date" yaml:"date"`
	Title          string `json:"title" yaml:"title"`
	IntroText      string `json:"introText" yaml:"introText"`
	CustodianName  string `json:"custodianName" yaml:"custodianName"`
	CustodianTitle string `json:"custodianTitle" yaml:"custodianTitle"`
	ClosingText    string `json:"closingText" yaml:"closingText"`

	// Left signature block and page header captions
	SignatoryName     string `json:"signatoryName" yaml:"signatoryName"`
	SignatoryTitle    string `json:"signatoryTitle" yaml:"signatoryTitle"`
	HeaderOffice      string `json:"headerOffice" yaml:"headerOffice"`
	HeaderDirectorate string `json:"headerDirectorate" yaml:"headerDirectorate"`
}

// DefaultSettings returns the built-in boilerplate
func DefaultSettings() Settings {
	return Settings{
		OfficeName:     "",
		Location:       "",
		Date:           "Caracas " + TokenDate,
		Title:          "Asignación de Obras de Arte",
		IntroText:      "La Dirección de Patrimonio Cultural por medio de la presente, hace constar que las obras de arte pertenecientes a la Colección Permanente del MPPRE, detalladas a continuación se encuentran asignadas a la " + TokenOffice + ", ubicada en el " + TokenLocation + ".",
		CustodianName:  "Rhonal Lee Fonseca Alvarado",
		CustodianTitle: "Director General de la Oficina Estratégica de Seguimiento y Evaluación de Políticas Públicas",
		ClosingText:    "El ciudadano " + TokenCustodianName + ", será el custodio de las obras mencionadas. Es fundamental resaltar que la Dirección de Patrimonio Cultural es la única autorizada para realizar cambios en las obras bajo su custodia. Estas piezas poseen un valor histórico cultural y su conservación es crucial para preservar nuestra memoria.",

		SignatoryName:     "Arq. Juan Tablante",
		SignatoryTitle:    "Director de Patrimonio",
		HeaderOffice:      "Oficina de Servicios Administrativos",
		HeaderDirectorate: "Dirección de Patrimonio Cultural",
	}
}

// MergeSettings overlays a saved JSON record onto the defaults.
// Keys present in saved win even when empty, absent keys keep their default,
// and an empty closing text falls back to the default closing text.
func MergeSettings(saved []byte) (Settings, error) {
	defaults := DefaultSettings()
	merged := defaults

	if len(strings.TrimSpace(string(saved))) > 0 {
		if err := json.Unmarshal(saved, &merged); err != nil {
			return defaults, fmt.Errorf("failed to parse saved settings: %w", err)
		}
	}

	if merged.ClosingText == "" {
		merged.ClosingText = defaults.ClosingText
	}
	return merged, nil
}

// settingFields maps settings keys to accessors. Keys match the JSON names.
var settingFields = map[string]func(*Settings) *string{
	"officeName":        func(s *Settings) *string { return &s.OfficeName },
	"location":          func(s *Settings) *string { return &s.Location },
	"date":              func(s *Settings) *string { return &s.Date },
	"title":             func(s *Settings) *string { return &s.Title },
	"introText":         func(s *Settings) *string { return &s.IntroText },
	"custodianName":     func(s *Settings) *string { return &s.CustodianName },
	"custodianTitle":    func(s *Settings) *string { return &s.CustodianTitle },
	"closingText":       func(s *Settings) *string { return &s.ClosingText },
	"signatoryName":     func(s *Settings) *string { return &s.SignatoryName },
	"signatoryTitle":    func(s *Settings) *string { return &s.SignatoryTitle },
	"headerOffice":      func(s *Settings) *string { return &s.HeaderOffice },
	"headerDirectorate": func(s *Settings) *string { return &s.HeaderDirectorate },
}

// SettingKeys lists every settings key in a stable order
func SettingKeys() []string {
	keys := make([]string, 0, len(settingFields))
	for k := range settingFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// resolveSettingKey accepts keys case-insensitively
func resolveSettingKey(key string) (string, bool) {
	if _, ok := settingFields[key]; ok {
		return key, true
	}
	for k := range settingFields {
		if strings.EqualFold(k, key) {
			return k, true
		}
	}
	return "", false
}

// With returns a copy of s with one field replaced
func (s Settings) With(key, value string) (Settings, error) {
	canonical, ok := resolveSettingKey(key)
	if !ok {
		return s, fmt.Errorf("%w: %q (valid keys: %s)", ErrUnknownSetting, key, strings.Join(SettingKeys(), ", "))
	}
	next := s
	*settingFields[canonical](&next) = value
	return next, nil
}

// Get returns the value of one field
func (s Settings) Get(key string) (string, error) {
	canonical, ok := resolveSettingKey(key)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}
	return *settingFields[canonical](&s), nil
}

// Tokens returns the placeholder values derived from the settings.
// The date token is supplied by the caller because it depends on the clock.
func (s Settings) Tokens(formattedDate string) map[string]string {
	return map[string]string{
		TokenDate:          formattedDate,
		TokenOffice:        s.OfficeName,
		TokenLocation:      s.Location,
		TokenCustodianName: s.CustodianName,
	}
}
