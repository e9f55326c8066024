package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchLocale(t *testing.T) {
	assert.Equal(t, "en", MatchLocale("en-US,en;q=0.9", "ka"))
	assert.Equal(t, "ru", MatchLocale("ru-RU", "ka"))
	assert.Equal(t, "ka", MatchLocale("ka", "en"))
	assert.Equal(t, "en", MatchLocale("", "en"))
	assert.Equal(t, "ka", MatchLocale("", "de"))
}

func TestLocalize(t *testing.T) {
	assert.Equal(t, "Unknown variety", Localize("en", MsgUnknownVariety))
	assert.Equal(t, "Цена договорная", Localize("ru", MsgPriceByAgreement))
	assert.Equal(t, "უცნობი ჯიში", Localize("de", MsgUnknownVariety))
	assert.Equal(t, "", Localize("en", "missing"))
}
