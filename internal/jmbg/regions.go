package jmbg

import "sort"

// regions maps the tens digit of RR to the political region of birth.
// Digit 6 was never assigned.
var regions = map[int]string{
	0: "Foreigners",
	1: "Bosnia and Herzegovina",
	2: "Montenegro",
	3: "Croatia",
	4: "Macedonia",
	5: "Slovenia",
	7: "Central Serbia",
	8: "Vojvodina",
	9: "Kosovo",
}

// places maps the full RR code to the registration place.
var places = map[int]string{
	1: "Foreigners in Bosnia and Herzegovina",
	2: "Foreigners in Montenegro",
	3: "Foreigners in Croatia",
	4: "Foreigners in Macedonia",
	5: "Foreigners in Slovenia",
	6: "Foreigners in Central Serbia",
	7: "Foreigners in Vojvodina",
	8: "Foreigners in Kosovo",
	9: "Naturalized citizens",

	10: "Banja Luka",
	11: "Bihać",
	12: "Doboj",
	13: "Goražde",
	14: "Livno",
	15: "Mostar",
	16: "Prijedor",
	17: "Sarajevo",
	18: "Tuzla",
	19: "Zenica",

	21: "Podgorica",
	22: "Bar",
	23: "Budva",
	24: "Herceg Novi",
	25: "Cetinje",
	26: "Nikšić",
	27: "Berane",
	28: "Bijelo Polje",
	29: "Pljevlja",

	30: "Osijek",
	31: "Bjelovar",
	32: "Varaždin",
	33: "Zagreb",
	34: "Karlovac",
	35: "Gospić",
	36: "Rijeka",
	37: "Sisak",
	38: "Split",
	39: "Hrvatsko Zagorje",

	41: "Bitola",
	42: "Kumanovo",
	43: "Ohrid",
	44: "Prilep",
	45: "Skopje",
	46: "Strumica",
	47: "Tetovo",
	48: "Veles",
	49: "Štip",

	50: "Slovenia",

	71: "Belgrade",
	72: "Kragujevac",
	73: "Niš",
	74: "Leskovac",
	75: "Zaječar",
	76: "Smederevo",
	77: "Šabac",
	78: "Kraljevo",
	79: "Užice",

	80: "Novi Sad",
	81: "Sombor",
	82: "Subotica",
	85: "Zrenjanin",
	86: "Pančevo",
	87: "Kikinda",
	88: "Ruma",
	89: "Sremska Mitrovica",

	91: "Priština",
	92: "Kosovska Mitrovica",
	93: "Peć",
	94: "Đakovica",
	95: "Prizren",
	96: "Gnjilane",
}

// placeCodes returns the assigned RR codes in ascending order.
func placeCodes() []int {
	codes := make([]int, 0, len(places))
	for code := range places {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

// PlaceName returns the place registered under RR code, if any.
func PlaceName(code int) (string, bool) {
	p, ok := places[code]
	return p, ok
}
