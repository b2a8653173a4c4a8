package schema

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// HeaderButton 表单头部的功能按钮
type HeaderButton struct {
	Name      string `json:"name"`      // 方法名
	Label     string `json:"label"`     // 按钮显示名
	Modifiers string `json:"modifiers"` // 可见性表达式（原样保留）
}

// HeaderButtons 解析表单视图中 <header> 下的 <button>
func (rt *RecordType) HeaderButtons() ([]HeaderButton, error) {
	if strings.TrimSpace(rt.FormView) == "" {
		return nil, nil
	}

	dec := xml.NewDecoder(strings.NewReader(rt.FormView))
	var buttons []HeaderButton
	depth := 0
	headerDepth := -1
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("解析单据 %s 表单视图失败: %w", rt.Model, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch {
			case t.Name.Local == "header" && headerDepth < 0:
				headerDepth = depth
			case t.Name.Local == "button" && headerDepth >= 0 && depth == headerDepth+1:
				b := HeaderButton{}
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "name":
						b.Name = attr.Value
					case "string":
						b.Label = attr.Value
					case "modifiers":
						b.Modifiers = attr.Value
					}
				}
				if b.Name != "" {
					buttons = append(buttons, b)
				}
			}
		case xml.EndElement:
			if depth == headerDepth {
				headerDepth = -1
			}
			depth--
		}
	}
	return buttons, nil
}
