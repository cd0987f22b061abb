package model

import "strings"

// ClassMap maps Android widget class names to compact codes.
var ClassMap = map[string]string{
	"android.widget.Button":                     "btn",
	"android.widget.ImageButton":                "btn",
	"android.widget.TextView":                   "txt",
	"android.widget.ImageView":                  "img",
	"android.widget.EditText":                   "input",
	"android.widget.AutoCompleteTextView":       "input",
	"android.widget.CheckBox":                   "chk",
	"android.widget.Switch":                     "toggle",
	"android.widget.ToggleButton":               "toggle",
	"android.widget.RadioButton":                "radio",
	"android.widget.ListView":                   "list",
	"android.widget.ScrollView":                 "scroll",
	"android.widget.HorizontalScrollView":       "scroll",
	"androidx.recyclerview.widget.RecyclerView": "list",
	"android.widget.FrameLayout":                "group",
	"android.widget.LinearLayout":               "group",
	"android.widget.RelativeLayout":             "group",
	"android.view.ViewGroup":                    "group",
	"android.webkit.WebView":                    "web",
	"android.view.View":                         "view",
}

// ShortClass converts a widget class name to a compact code. Unknown classes
// fall back to a suffix check so custom subclasses (e.g. "MaterialButton")
// still map sensibly.
func ShortClass(class string) string {
	if short, ok := ClassMap[class]; ok {
		return short
	}
	name := class
	if idx := strings.LastIndex(class, "."); idx >= 0 {
		name = class[idx+1:]
	}
	switch {
	case strings.HasSuffix(name, "Button"):
		return "btn"
	case strings.HasSuffix(name, "EditText"):
		return "input"
	case strings.HasSuffix(name, "TextView"):
		return "txt"
	case strings.HasSuffix(name, "ImageView"):
		return "img"
	case strings.HasSuffix(name, "CheckBox"):
		return "chk"
	case strings.HasSuffix(name, "Layout"):
		return "group"
	}
	return "other"
}
