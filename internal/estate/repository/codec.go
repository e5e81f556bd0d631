package repository

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/skyproperties/sky-backend/internal/gateway"
)

// encode turns a struct into document fields using its json tags. The id
// never goes into the document body.
func encode(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	delete(data, "id")
	return data, nil
}

// decode fills out from a stored document. Numbers and timestamps are
// converted leniently since documents written by other clients vary.
func decode(doc gateway.Document, out any) error {
	data := gateway.Clone(doc.Data)
	data["id"] = doc.ID

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			blankTimeHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		),
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(data); err != nil {
		return fmt.Errorf("decode document %s: %w", doc.ID, err)
	}
	return nil
}

var timeType = reflect.TypeOf(time.Time{})

func blankTimeHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() == reflect.String && to == timeType && reflect.ValueOf(data).String() == "" {
		return time.Time{}, nil
	}
	return data, nil
}
