package constant

import "strings"

type Brand struct {
	Key            string `json:"key"`
	Name           string `json:"name"`
	WelcomeMessage string `json:"welcome_message"`
}

const (
	BrandDarboAsistentas = "darbo-asistentas"
	BrandManoBustas      = "mano-bustas"
	BrandProjektuZvalgas = "projektu-zvalgas"
)

const welcomeSuffix = " Kaip galiu jums padėti? \n\nPrisiminkite, aš esu virtualus asistentas, galiu kartais suklysti."

var Brands = map[string]Brand{
	BrandDarboAsistentas: {
		Key:            BrandDarboAsistentas,
		Name:           "Darbo Asistentas",
		WelcomeMessage: "Sveiki atvykę, Darbo Asistentas." + welcomeSuffix,
	},
	BrandManoBustas: {
		Key:            BrandManoBustas,
		Name:           "Mano Būstas",
		WelcomeMessage: "Sveiki atvykę, Mano Būstas asistentas." + welcomeSuffix,
	},
	BrandProjektuZvalgas: {
		Key:            BrandProjektuZvalgas,
		Name:           "Projektų Žvalgas",
		WelcomeMessage: "Sveiki atvykę, Projektų Žvalgas asistentas." + welcomeSuffix,
	},
}

// LookupBrand falls back to Projektų Žvalgas for unknown keys.
func LookupBrand(key string) Brand {
	if b, ok := Brands[strings.ToLower(strings.TrimSpace(key))]; ok {
		return b
	}
	return Brands[BrandProjektuZvalgas]
}
