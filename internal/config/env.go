package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
)

// envOverlay copies environment variables named by `env` tags onto config fields
type envOverlay struct {
	lookup  func(string) (string, bool)
	applied []string // variables that changed a field, in struct order
}

// apply walks the sections of v, a pointer to a struct, and overrides tagged fields
func (o *envOverlay) apply(v any) error {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("env overlay needs a struct pointer, got %T", v)
	}
	return o.walk(val.Elem())
}

func (o *envOverlay) walk(section reflect.Value) error {
	typ := section.Type()
	for i := 0; i < section.NumField(); i++ {
		field, meta := section.Field(i), typ.Field(i)

		if field.Kind() == reflect.Struct {
			if err := o.walk(field); err != nil {
				return err
			}
			continue
		}

		name := meta.Tag.Get("env")
		if name == "" {
			continue
		}
		raw, ok := o.lookup(name)
		if !ok {
			continue
		}
		if err := assign(field, raw); err != nil {
			return fmt.Errorf("%s: cannot use %q for %s: %w", name, raw, meta.Name, err)
		}
		o.applied = append(o.applied, name)
	}
	return nil
}

// assign parses raw into field according to the field's kind. Pointer fields are
// allocated, so an unset variable keeps them nil.
func assign(field reflect.Value, raw string) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	switch field.Kind() {
	case reflect.Ptr:
		elem := reflect.New(field.Type().Elem())
		if err := assign(elem.Elem(), raw); err != nil {
			return err
		}
		field.Set(elem)
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported kind %s", field.Kind())
	}
	return nil
}

// loadFromEnv overrides configuration with environment variables and returns the names
// of the variables that were applied
func loadFromEnv(config *Config) ([]string, error) {
	overlay := &envOverlay{lookup: os.LookupEnv}
	if err := overlay.apply(config); err != nil {
		return nil, err
	}
	return overlay.applied, nil
}
