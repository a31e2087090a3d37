package dashboard

import "strings"

// StyleID identifies the injected stylesheet so it is inserted once per document.
const StyleID = "dashboard-styles"

const baseStylesheet = `
.dsb-container{font-family:system-ui,-apple-system,Segoe UI,Roboto,"Helvetica Neue",Arial;padding:18px;color:var(--dsb-fg,#222);background:var(--dsb-page,transparent)}
.dsb-grid{display:grid;grid-template-columns:repeat(auto-fit,minmax(180px,1fr));gap:12px;margin-bottom:18px}
.dsb-card{background:var(--dsb-bg,#fff);border:1px solid var(--dsb-border,#eee);border-radius:8px;padding:12px;box-shadow:0 1px 2px rgba(0,0,0,0.03)}
.dsb-title{font-size:13px;color:var(--dsb-muted,#666);margin-bottom:6px}
.dsb-value{font-size:20px;font-weight:600}
.dsb-main{display:grid;grid-template-columns:2fr 1fr;gap:12px}
.dsb-charts{display:flex;flex-direction:column;gap:12px}
.dsb-table{width:100%;border-collapse:collapse}
.dsb-table th,.dsb-table td{padding:8px;text-align:left;border-bottom:1px solid #f0f0f0;font-size:13px}
.dsb-actions{display:flex;gap:8px;align-items:center;justify-content:flex-end;margin-bottom:12px}
button.dsb-btn{padding:8px 10px;border-radius:6px;border:1px solid #ddd;background:#fff;cursor:pointer}
@media (max-width:900px){.dsb-main{grid-template-columns:1fr}}
`

// Stylesheet returns the dashboard CSS including the theme variables.
func Stylesheet(theme Theme) string {
	var b strings.Builder
	if rule := theme.CSSRule(); rule != "" {
		b.WriteString("\n")
		b.WriteString(rule)
	}
	b.WriteString(baseStylesheet)
	return b.String()
}

// InjectStyles adds the stylesheet to the head unless it is already present. It
// reports whether a style element was inserted.
func InjectStyles(tx *Tx, b *Builder, theme Theme) bool {
	if tx.GetElementByID(StyleID) != nil {
		return false
	}
	tx.Append(tx.Head(), b.El("style", Attrs{"id": StyleID}, Stylesheet(theme)))
	return true
}
