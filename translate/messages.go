package translate

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var _messages_de = map[string]string{
	"decode":                         "Dekodierung",
	"stack empty":                    "Stapel leer",
	"stack full":                     "Stapel voll",
	"memory address out of range":    "Speicheradresse außerhalb des Bereichs",
	"memory address protected":       "Speicheradresse geschützt",
	"program too large":              "Programm zu groß",
	"key invalid":                    "Taste ungültig",
	"bad opcode 0x%04x at 0x%03x %v": "ungültiger Befehl 0x%04x bei 0x%03x %v",
	"rom too large":                  "ROM zu groß",
	"rom missing":                    "ROM fehlt",
	"line %d pc 0x%03x %v":           "Zeile %d PC 0x%03x %v",
	"pc 0x%03x %v":                   "PC 0x%03x %v",
	"line %d '%v' %v":                "Zeile %d '%v' %v",
	"label %v missing":               "Marke %v fehlt",
	"register invalid":               "Register ungültig",
	"value out of range":             "Wert außerhalb des Bereichs",
	"instruction invalid":            "Befehl ungültig",
}

func init() {
	for key, msg := range _messages_de {
		err := message.SetString(language.German, key, msg)
		if err != nil {
			panic(err)
		}
	}
}
