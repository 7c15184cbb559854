package locator

import (
	"github.com/fatih/structs"
	"github.com/mitchellh/mapstructure"

	"github.com/bacalhau-project/cortex/pkg/models"
)

// Source is the flat, serializable form of a Locator.
type Source struct {
	Kind   string
	Path   string `structs:",omitempty"`
	URL    string `structs:",omitempty"`
	Bucket string `structs:",omitempty"`
	Key    string `structs:",omitempty"`
}

// Source flattens the locator for display or serialization.
func (l Locator) Source() Source {
	return Source{
		Kind:   l.kind.String(),
		Path:   l.path,
		URL:    l.url,
		Bucket: l.bucket,
		Key:    l.key,
	}
}

func (s Source) ToMap() map[string]interface{} {
	return structs.Map(s)
}

// DecodeSource rebuilds a Locator from the map produced by Source.ToMap.
func DecodeSource(params map[string]interface{}) (Locator, error) {
	if params == nil {
		return Locator{}, models.NewBaseError("invalid locator params. cannot be nil").
			WithCode(models.BadRequestError).
			WithComponent(component)
	}

	var s Source
	if err := mapstructure.Decode(params, &s); err != nil {
		return Locator{}, models.NewBaseError("invalid locator params").
			WithCode(models.BadRequestError).
			WithComponent(component).
			WithCause(err)
	}

	switch s.Kind {
	case KindLocal.String():
		return NewLocal(s.Path)
	case KindURL.String():
		return parseURL(s.URL)
	case KindS3.String():
		return NewS3(s.Bucket, s.Key)
	default:
		return Locator{}, newMalformedError(s.Kind, "unknown locator kind")
	}
}
