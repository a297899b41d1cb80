// Package i18n loads YAML message catalogs and renders localized chat text
// through golang.org/x/text/message printers.
package i18n

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale every other locale falls back to.
const BaseLocale = "en-US"

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// Bundle holds the messages of every loaded locale.
type Bundle struct {
	locales map[string]map[string]string
}

// Load reads every <locale>/<namespace>.yaml file under dir.
//
// Postcondition: the base locale is present, or an error is returned.
func Load(dir string) (*Bundle, error) {
	return LoadFS(os.DirFS(dir))
}

// LoadFS reads every <locale>/<namespace>.yaml file in fsys.
func LoadFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	b := &Bundle{locales: make(map[string]map[string]string)}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := b.add(p, file); err != nil {
			return nil, err
		}
	}
	if _, ok := b.locales[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	return b, nil
}

func (b *Bundle) add(p string, file catalogFile) error {
	dirLocale := path.Base(path.Dir(p))
	locale := strings.TrimSpace(file.Locale)
	if locale != dirLocale {
		return fmt.Errorf("catalog %s: locale %q must match path locale %q", p, locale, dirLocale)
	}
	if _, err := language.Parse(locale); err != nil {
		return fmt.Errorf("catalog %s: %w", p, err)
	}
	namespace := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if strings.TrimSpace(file.Namespace) != namespace {
		return fmt.Errorf("catalog %s: namespace %q must match filename namespace %q", p, file.Namespace, namespace)
	}

	msgs, ok := b.locales[locale]
	if !ok {
		msgs = make(map[string]string)
		b.locales[locale] = msgs
	}
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", p)
		}
		if _, dup := msgs[key]; dup {
			return fmt.Errorf("catalog %s: duplicate key %q in locale %q", p, key, locale)
		}
		msgs[key] = value
	}
	return nil
}

// Locales returns the loaded locales sorted.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.locales))
	for l := range b.locales {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Message returns the raw message for key in locale, falling back to the
// base locale.
func (b *Bundle) Message(locale, key string) (string, bool) {
	if msgs, ok := b.locales[locale]; ok {
		if v, ok := msgs[key]; ok {
			return v, true
		}
	}
	v, ok := b.locales[BaseLocale][key]
	return v, ok
}

// Missing returns the base-locale keys that locale does not translate.
func (b *Bundle) Missing(locale string) []string {
	var out []string
	for key := range b.locales[BaseLocale] {
		if _, ok := b.locales[locale][key]; !ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

// Printer renders messages of one locale.
type Printer struct {
	locale string
	p      *message.Printer
}

// Printer builds a Printer for locale. Keys the locale lacks use the base
// locale's text.
//
// Postcondition: returns an error for an unknown locale.
func (b *Bundle) Printer(locale string) (*Printer, error) {
	if _, ok := b.locales[locale]; !ok {
		return nil, fmt.Errorf("unknown locale %q", locale)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	builder := catalog.NewBuilder()
	for key, value := range b.locales[BaseLocale] {
		if err := builder.SetString(tag, key, value); err != nil {
			return nil, fmt.Errorf("register %q: %w", key, err)
		}
	}
	if locale != BaseLocale {
		for key, value := range b.locales[locale] {
			if err := builder.SetString(tag, key, value); err != nil {
				return nil, fmt.Errorf("register %q: %w", key, err)
			}
		}
	}
	return &Printer{locale: locale, p: message.NewPrinter(tag, message.Catalog(builder))}, nil
}

// Locale returns the printer's locale.
func (p *Printer) Locale() string {
	return p.locale
}

// T renders key with args.
func (p *Printer) T(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}
