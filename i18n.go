package yamlls

import (
	"embed"

	"github.com/kaptinlin/go-i18n"
)

//go:embed locales/*.json
var localesFS embed.FS

// NewI18nBundle returns an initialized internationalization bundle with
// the embedded "en" and "zh-Hans" locales loaded, ready for
// bundle.NewLocalizer(locale); the caller chooses the locale there.
func NewI18nBundle() (*i18n.I18n, error) {
	bundle := i18n.NewBundle(
		i18n.WithDefaultLocale("en"),
		i18n.WithLocales("en", "zh-Hans"),
	)

	err := bundle.LoadFS(localesFS, "locales/*.json")

	return bundle, err
}

// Localize renders p's message via localizer, looking up p.ProblemType as
// the message code and p.ProblemArgs as template variables. Falls back to
// p.Message verbatim when localizer is nil, p.ProblemType is empty (some
// problems — e.g. "$ref" resolution failures — carry only a literal
// message), or the locale has no entry for that code.
func Localize(p Problem, localizer *i18n.Localizer) string {
	if localizer == nil || p.ProblemType == "" {
		return p.Message
	}
	msg := localizer.Get(p.ProblemType, i18n.Vars(p.ProblemArgs))
	if msg == "" {
		return p.Message
	}
	return msg
}
