package glsl

import (
	"sort"
	"strings"
)

// Inject inserts "#define name value" lines right after the #version
// directive of src (or at the top when there is none). Defines are emitted
// in name order.
func Inject(src string, defines map[string]string) string {
	if len(defines) == 0 {
		return src
	}
	names := make([]string, 0, len(defines))
	for name := range defines {
		names = append(names, name)
	}
	sort.Strings(names)

	var block strings.Builder
	for _, name := range names {
		block.WriteString("#define ")
		block.WriteString(name)
		if v := defines[name]; v != "" {
			block.WriteByte(' ')
			block.WriteString(v)
		}
		block.WriteByte('\n')
	}

	trimmed := strings.TrimLeft(src, " \t\r\n")
	if strings.HasPrefix(trimmed, "#version") {
		offset := len(src) - len(trimmed)
		end := strings.IndexByte(trimmed, '\n')
		if end < 0 {
			return src + "\n" + block.String()
		}
		cut := offset + end + 1
		return src[:cut] + block.String() + src[cut:]
	}
	return block.String() + src
}
