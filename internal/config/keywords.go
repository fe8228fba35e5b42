package config

import (
	"github.com/kwatters/hilex/internal/basic"
	"github.com/kwatters/hilex/internal/csharp"
	"github.com/kwatters/hilex/internal/document"
)

// CSharpKeywords builds the C-family keyword tables, starting from the stock
// set and applying config overrides and the shared task-marker list.
func (c Config) CSharpKeywords() *csharp.Keywords {
	kw := csharp.DefaultKeywords()
	if len(c.TaskMarkers) > 0 {
		kw.TaskMarker = document.NewWordList(c.TaskMarkers...)
	}
	for name, words := range c.CSharpLists {
		list := document.NewWordListFromString(words)
		switch name {
		case "keyword":
			kw.Keyword = list
		case "type":
			kw.Type = list
		case "type_extra":
			kw.TypeExtra = list
		case "preprocessor":
			kw.Preprocessor = list
		case "attribute":
			kw.Attribute = list
		case "class":
			kw.Class = list
		case "struct":
			kw.Struct = list
		case "interface":
			kw.Interface = list
		case "enum":
			kw.Enum = list
		case "constant":
			kw.Constant = list
		case "task_marker":
			kw.TaskMarker = list
		}
	}
	return kw
}

// BasicKeywords builds the BASIC-family keyword tables with config overrides
// applied.
func (c Config) BasicKeywords() *basic.Keywords {
	kw := basic.DefaultKeywords()
	for name, words := range c.BasicLists {
		list := document.NewWordListFromString(words)
		switch name {
		case "keyword":
			kw.Keyword = list
		case "type":
			kw.TypeKeyword = list
		case "classic":
			kw.ClassicKeyword = list
		case "preprocessor":
			kw.Preprocessor = list
		case "attribute":
			kw.Attribute = list
		case "class":
			kw.Class = list
		case "interface":
			kw.Interface = list
		case "enum":
			kw.Enum = list
		case "constant":
			kw.Constant = list
		case "function":
			kw.BasicFunction = list
		}
	}
	return kw
}
