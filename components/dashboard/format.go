package dashboard

import (
	"time"

	"github.com/goodsign/monday"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// dateLabelLayout matches the short numeric date of the en-US locale.
const dateLabelLayout = "1/2/2006"

// MoneyFormatter renders numeric values as localized currency strings.
type MoneyFormatter struct {
	unit    currency.Unit
	symbol  string
	scale   int
	printer *message.Printer
}

var currencySymbols = map[currency.Unit]string{
	currency.USD: "$",
	currency.EUR: "€",
	currency.GBP: "£",
	currency.JPY: "¥",
}

// NewMoneyFormatter builds a formatter for the unit and locale.
func NewMoneyFormatter(unit currency.Unit, tag language.Tag) MoneyFormatter {
	scale, _ := currency.Standard.Rounding(unit)
	symbol, ok := currencySymbols[unit]
	if !ok {
		symbol = unit.String() + " "
	}
	return MoneyFormatter{
		unit:    unit,
		symbol:  symbol,
		scale:   scale,
		printer: message.NewPrinter(tag),
	}
}

var defaultMoney = NewMoneyFormatter(currency.USD, language.AmericanEnglish)

// FormatCurrency formats numbers as USD; non-numeric values are returned unchanged.
func FormatCurrency(v any) any {
	return defaultMoney.Format(v)
}

// Format renders v when it is numeric and returns it unchanged otherwise.
func (f MoneyFormatter) Format(v any) any {
	amount, ok := numericValue(v)
	if !ok {
		return v
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + f.symbol + f.printer.Sprint(number.Decimal(amount, number.Scale(f.scale)))
}

// FormatCurrencyString is FormatCurrency for places that need text.
func FormatCurrencyString(v any) string {
	switch out := FormatCurrency(v).(type) {
	case string:
		return out
	default:
		return defaultMoney.printer.Sprint(out)
	}
}

func numericValue(v any) (float64, bool) {
	switch val := v.(type) {
	case Money:
		return val.InexactFloat64(), true
	case *Money:
		if val == nil {
			return 0, false
		}
		return val.InexactFloat64(), true
	case decimal.Decimal:
		return val.InexactFloat64(), true
	case *decimal.Decimal:
		if val == nil {
			return 0, false
		}
		return val.InexactFloat64(), true
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}

// FormatDateLabel renders a YYYY-MM-DD date for the given locale. Unparseable input
// is returned unchanged.
func FormatDateLabel(date string, locale monday.Locale) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	if locale == "" {
		locale = monday.LocaleEnUS
	}
	return monday.Format(t, dateLabelLayout, locale)
}

// Unit reports the currency the formatter renders.
func (f MoneyFormatter) Unit() currency.Unit {
	return f.unit
}
