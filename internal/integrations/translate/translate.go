package translate

import (
	"context"
	"errors"
	"html"
	"log"
	"net/http"

	"github.com/vlatan/video-notes/internal/config"
	"github.com/vlatan/video-notes/internal/languages"
	"github.com/vlatan/video-notes/internal/models"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	translate "google.golang.org/api/translate/v2"
)

const opTranslation = "translation"

var errNoTranslation = errors.New("translation API returned no translations")

// Translate service
type Service struct {
	translate *translate.Service
}

// Create new Cloud Translation service
func New(ctx context.Context, cfg *config.Config, opts ...option.ClientOption) (*Service, error) {

	opts = append([]option.ClientOption{option.WithAPIKey(cfg.TranslateAPIKey)}, opts...)
	svc, err := translate.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &Service{translate: svc}, nil
}

// Translate returns the text translated to the target language.
// English targets get the text back unchanged without calling the API.
// Errors are *models.PipelineError.
func (s *Service) Translate(ctx context.Context, text, target string) (string, error) {

	if languages.IsSource(target) {
		return text, nil
	}

	response, err := s.translate.Translations.
		List([]string{text}, target).
		Format("text").
		Context(ctx).
		Do()

	if err != nil {
		log.Printf("Failed to translate to '%s': %v", target, err)
		return "", classify(err)
	}

	if len(response.Translations) == 0 {
		return "", models.NewError(models.KindUpstreamFailure, opTranslation, errNoTranslation)
	}

	// Plain text format should need no unescaping,
	// but the API still escapes the odd entity.
	return html.UnescapeString(response.Translations[0].TranslatedText), nil
}

// Languages lists the supported translation targets with English names
func (s *Service) Languages(ctx context.Context) (models.Languages, error) {

	response, err := s.translate.Languages.
		List().
		Target(languages.Default).
		Context(ctx).
		Do()

	if err != nil {
		return nil, err
	}

	langs := make(models.Languages, 0, len(response.Languages))
	for _, lang := range response.Languages {
		if lang.Language == "" {
			continue
		}

		name := lang.Name
		if name == "" {
			name = lang.Language
		}

		langs = append(langs, models.Language{Code: lang.Language, Name: name})
	}

	if len(langs) == 0 {
		return nil, errors.New("translation API returned no languages")
	}

	languages.Sort(langs)
	return langs, nil
}

// classify wraps err into a pipeline error of the proper kind
func classify(err error) error {

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return models.NewError(models.KindQuotaExceeded, opTranslation, err)
	}

	return models.NewError(models.KindUpstreamFailure, opTranslation, err)
}
