package i18n

import (
	"context"
	"errors"
	"fmt"
	"sync"

	fiberlog "github.com/gofiber/fiber/v2/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/text/language"

	rx "github.com/deadlyengineer/some-reactive-streams-with-go"
)

// ErrUnknownLocale is returned for locales that are not supported, or have no bundle.
var ErrUnknownLocale = errors.New("unknown locale")

// ErrNotReady is returned when switching locales before Init has completed.
var ErrNotReady = errors.New("translator not ready")

// ErrSuperseded is returned by a locale switch that a later switch or Init has replaced
// before its bundle was loaded.
var ErrSuperseded = errors.New("locale switch superseded")

const defaultCacheSize = 8

// Translator translates message keys using the bundle of the active locale,
// falling back to the bundle of the default locale.
// Loaded bundles are kept in an LRU cache.
type Translator struct {
	loader    Loader
	supported []language.Tag
	matcher   language.Matcher
	bundles   *lru.Cache[string, Bundle]

	mu       sync.RWMutex
	ready    bool
	requests uint64 // switch requests so far, the latest one wins
	locale   language.Tag
	active   Bundle
	fallback Bundle
}

// NewTranslator returns a translator that loads bundles with loader.
// The first supported locale is the default locale.
func NewTranslator(loader Loader, supported []language.Tag, cacheSize int) (*Translator, error) {
	if len(supported) == 0 {
		return nil, errors.New("new translator: no supported locales")
	}

	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}

	bundles, err := lru.NewWithEvict[string, Bundle](cacheSize, func(key string, _ Bundle) {
		fiberlog.Debugf("i18n: evicted bundle %s", key)
	})
	if err != nil {
		return nil, fmt.Errorf("new translator: %w", err)
	}

	return &Translator{
		loader:    loader,
		supported: supported,
		matcher:   language.NewMatcher(supported),
		bundles:   bundles,
		locale:    supported[0],
	}, nil
}

// Default returns the default locale.
func (t *Translator) Default() language.Tag {
	return t.supported[0]
}

// Init adds resources to the cache, makes sure the bundle of the default locale is loaded,
// and activates the default locale. It supersedes pending switches.
// The returned future resolves to the default locale.
func (t *Translator) Init(ctx context.Context, resources map[string]Bundle) rx.Future[language.Tag] {
	t.request()

	return rx.Async(func() (language.Tag, error) {
		keys := maps.Keys(resources)
		slices.Sort(keys)

		for _, key := range keys {
			tag, err := language.Parse(key)
			if err != nil {
				return language.Und, fmt.Errorf("init: %w", err)
			}

			t.bundles.Add(tag.String(), resources[key])
		}

		def := t.Default()

		bundle, err := t.bundle(ctx, def)
		if err != nil {
			return language.Und, fmt.Errorf("init: %w", err)
		}

		t.mu.Lock()
		t.ready = true
		t.locale = def
		t.active = bundle
		t.fallback = bundle
		t.mu.Unlock()

		fiberlog.Infof("i18n: ready with %d bundles, locale %s", t.bundles.Len(), def)

		return def, nil
	})
}

// Match returns the supported locale that best matches the locale named s.
func (t *Translator) Match(s string) (language.Tag, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("match %q: %w", s, ErrUnknownLocale)
	}

	_, index, confidence := t.matcher.Match(tag)
	if confidence == language.No {
		return language.Und, fmt.Errorf("match %q: %w", s, ErrUnknownLocale)
	}

	return t.supported[index], nil
}

// HasBundle returns true if the bundle of tag is loaded.
func (t *Translator) HasBundle(tag language.Tag) bool {
	return t.bundles.Contains(tag.String())
}

// AddBundleAndSwitch loads the bundle of tag, then makes tag the active locale.
// The returned future resolves to tag. If Init, Switch or AddBundleAndSwitch is called
// again before the bundle is loaded, the bundle is still cached but the locale is left alone,
// and the future is rejected with ErrSuperseded.
func (t *Translator) AddBundleAndSwitch(ctx context.Context, tag language.Tag) rx.Future[language.Tag] {
	return t.load(ctx, tag, t.request())
}

// Switch makes tag the active locale, loading its bundle first if needed.
// The returned future resolves to tag. A switch that has to load the bundle is
// superseded by later calls the same way as AddBundleAndSwitch.
func (t *Translator) Switch(ctx context.Context, tag language.Tag) rx.Future[language.Tag] {
	req := t.request()

	if bundle, ok := t.bundles.Get(tag.String()); ok {
		if err := t.activate(tag, bundle, req); err != nil {
			return rx.Rejected[language.Tag](err)
		}

		return rx.Resolved(tag)
	}

	return t.load(ctx, tag, req)
}

func (t *Translator) load(ctx context.Context, tag language.Tag, req uint64) rx.Future[language.Tag] {
	return rx.Async(func() (language.Tag, error) {
		t.mu.RLock()
		ready := t.ready
		t.mu.RUnlock()

		if !ready {
			return language.Und, ErrNotReady
		}

		bundle, err := t.loader.Load(ctx, tag)
		if err != nil {
			return language.Und, err
		}

		t.bundles.Add(tag.String(), bundle)

		if err := t.activate(tag, bundle, req); err != nil {
			return language.Und, err
		}

		return tag, nil
	})
}

// Locale returns the active locale.
func (t *Translator) Locale() language.Tag {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.locale
}

// Locales returns the locales whose bundles are loaded, sorted.
func (t *Translator) Locales() []string {
	locales := t.bundles.Keys()
	slices.Sort(locales)

	return locales
}

// T returns the message for key in the active locale, formatted with args.
// If neither the active nor the default bundle has the key, T returns the key.
func (t *Translator) T(key string, args ...any) string {
	t.mu.RLock()
	msg, ok := t.active[key]
	if !ok {
		msg, ok = t.fallback[key]
	}
	t.mu.RUnlock()

	if !ok {
		return key
	}

	if len(args) == 0 {
		return msg
	}

	return fmt.Sprintf(msg, args...)
}

// Translate returns an operator that translates each locale to the message for key, formatted with args.
func (t *Translator) Translate(key string, args ...any) rx.Operator[language.Tag, string] {
	return rx.Map(func(language.Tag) string {
		return t.T(key, args...)
	})
}

func (t *Translator) bundle(ctx context.Context, tag language.Tag) (Bundle, error) {
	if bundle, ok := t.bundles.Get(tag.String()); ok {
		return bundle, nil
	}

	bundle, err := t.loader.Load(ctx, tag)
	if err != nil {
		return nil, err
	}

	t.bundles.Add(tag.String(), bundle)

	return bundle, nil
}

// request starts a switch request, and returns its number.
func (t *Translator) request() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.requests++

	return t.requests
}

func (t *Translator) activate(tag language.Tag, bundle Bundle, req uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.ready {
		return ErrNotReady
	}

	if req != t.requests {
		fiberlog.Debugf("i18n: switch to %s superseded", tag)
		return fmt.Errorf("switch to %s: %w", tag, ErrSuperseded)
	}

	t.locale = tag
	t.active = bundle

	fiberlog.Infof("i18n: switched to %s", tag)

	return nil
}
