package domain

import (
	"golang.org/x/text/language"
)

// Message keys shown to end users.
const (
	MsgUnknownVariety   = "unknown_variety"
	MsgFeedError        = "feed_error"
	MsgPriceByAgreement = "price_by_agreement"
	MsgLoginRequired    = "login_required"
	MsgListingNotFound  = "listing_not_found"
)

// DefaultLocale is the marketplace's primary language.
const DefaultLocale = "ka"

var supportedLocales = []language.Tag{
	language.Georgian,
	language.English,
	language.Russian,
}

var localeMatcher = language.NewMatcher(supportedLocales)

var messages = map[string]map[string]string{
	"ka": {
		MsgUnknownVariety:   "უცნობი ჯიში",
		MsgFeedError:        "განცხადებების ჩატვირთვა ვერ მოხერხდა",
		MsgPriceByAgreement: "ფასი შეთანხმებით",
		MsgLoginRequired:    "რჩეულების სანახავად გაიარეთ ავტორიზაცია",
		MsgListingNotFound:  "განცხადება ვერ მოიძებნა",
	},
	"en": {
		MsgUnknownVariety:   "Unknown variety",
		MsgFeedError:        "Could not load listings",
		MsgPriceByAgreement: "Price by agreement",
		MsgLoginRequired:    "Sign in to see your favorites",
		MsgListingNotFound:  "Listing not found",
	},
	"ru": {
		MsgUnknownVariety:   "Неизвестный сорт",
		MsgFeedError:        "Не удалось загрузить объявления",
		MsgPriceByAgreement: "Цена договорная",
		MsgLoginRequired:    "Войдите, чтобы увидеть избранное",
		MsgListingNotFound:  "Объявление не найдено",
	},
}

// MatchLocale picks the best supported locale for an Accept-Language value,
// falling back to def when nothing matches.
func MatchLocale(acceptLanguage, def string) string {
	if acceptLanguage == "" {
		return normalizeLocale(def)
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return normalizeLocale(def)
	}
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return normalizeLocale(def)
	}
	base, _ := supportedLocales[idx].Base()
	return base.String()
}

// Localize returns the message for key in locale, falling back to Georgian.
func Localize(locale, key string) string {
	if m, ok := messages[locale]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	return messages[DefaultLocale][key]
}

func normalizeLocale(s string) string {
	if _, ok := messages[s]; ok {
		return s
	}
	return DefaultLocale
}
