package avconv

import (
	"github.com/asticode/go-astiav"
)

// Metadata copies all the entries of d.
func Metadata(d *astiav.Dictionary) map[string]string {
	result := map[string]string{}
	if d == nil {
		return result
	}
	var prev *astiav.DictionaryEntry
	for {
		entry := d.Get("", prev, astiav.NewDictionaryFlags(astiav.DictionaryFlagIgnoreSuffix))
		if entry == nil {
			return result
		}
		result[entry.Key()] = entry.Value()
		prev = entry
	}
}
