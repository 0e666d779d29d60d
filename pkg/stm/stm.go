// SPDX-License-Identifier: GPL-3.0-or-later

package stm

import (
	"log"
	"reflect"
	"strconv"
	"strings"
)

const fieldTagName = "stm"

// Value is a scalar or a composite that knows how to add itself to a metrics map.
type Value interface {
	WriteTo(rv map[string]int64, key string, mul, div int)
}

// ToMap converts struct to a map[string]int64 based on 'stm' tags.
func ToMap(s ...any) map[string]int64 {
	rv := map[string]int64{}
	for _, v := range s {
		value := reflect.Indirect(reflect.ValueOf(v))
		toMap(rv, value, "", 1, 1)
	}
	return rv
}

func toMap(rv map[string]int64, value reflect.Value, key string, mul, div int) {
	if !value.IsValid() {
		log.Panicf("value is not valid key=%s", key)
	}
	if value.CanInterface() {
		val := value.Interface()
		if v, ok := val.(Value); ok {
			v.WriteTo(rv, key, mul, div)
			return
		}
	}
	switch value.Kind() {
	case reflect.Ptr:
		convertPtr(rv, value, key, mul, div)
	case reflect.Struct:
		convertStruct(rv, value, key)
	case reflect.Map:
		convertMap(rv, value, key, mul, div)
	case reflect.Bool:
		convertBool(rv, value, key)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		convertInteger(rv, value, key, mul, div)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		convertUnsignedInteger(rv, value, key, mul, div)
	case reflect.Float32, reflect.Float64:
		convertFloat(rv, value, key, mul, div)
	case reflect.Interface:
		convertInterface(rv, value, key, mul, div)
	default:
		log.Panicf("unsupported data type: %v", value.Kind())
	}
}

func convertPtr(rv map[string]int64, value reflect.Value, key string, mul, div int) {
	if !value.IsNil() {
		toMap(rv, value.Elem(), key, mul, div)
	}
}

func convertStruct(rv map[string]int64, value reflect.Value, key string) {
	t := value.Type()
	for i := 0; i < t.NumField(); i++ {
		ft := t.Field(i)
		tag, ok := ft.Tag.Lookup(fieldTagName)
		if !ok || ft.PkgPath != "" {
			continue
		}
		prefix, mul, div := parseTag(tag)
		toMap(rv, value.Field(i), joinPrefix(key, prefix), mul, div)
	}
}

func convertMap(rv map[string]int64, value reflect.Value, key string, mul, div int) {
	if value.Kind() != reflect.Map || value.Type().Key().Kind() != reflect.String {
		log.Panicf("unsupported map type for key=%s", key)
	}
	for _, k := range value.MapKeys() {
		toMap(rv, value.MapIndex(k), joinPrefix(key, k.String()), mul, div)
	}
}

func convertBool(rv map[string]int64, value reflect.Value, key string) {
	if value.Bool() {
		rv[key] = 1
	} else {
		rv[key] = 0
	}
}

func convertInteger(rv map[string]int64, value reflect.Value, key string, mul, div int) {
	rv[key] = value.Int() * int64(mul) / int64(div)
}

func convertUnsignedInteger(rv map[string]int64, value reflect.Value, key string, mul, div int) {
	rv[key] = int64(value.Uint()) * int64(mul) / int64(div)
}

func convertFloat(rv map[string]int64, value reflect.Value, key string, mul, div int) {
	rv[key] = int64(value.Float() * float64(mul) / float64(div))
}

func convertInterface(rv map[string]int64, value reflect.Value, key string, mul, div int) {
	toMap(rv, value.Elem(), key, mul, div)
}

func joinPrefix(prefix, key string) string {
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	default:
		return prefix + "_" + key
	}
}

func parseTag(tag string) (prefix string, mul, div int) {
	parts := strings.Split(tag, ",")
	mul, div = 1, 1

	switch len(parts) {
	case 3:
		if v, err := strconv.Atoi(parts[2]); err == nil && v != 0 {
			div = v
		}
		fallthrough
	case 2:
		if v, err := strconv.Atoi(parts[1]); err == nil && v != 0 {
			mul = v
		}
		fallthrough
	case 1:
		prefix = parts[0]
	}

	return prefix, mul, div
}
