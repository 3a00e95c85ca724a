package contacts

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// normalizeLang valida un código de idioma ("es_MX", "es-mx", "en") y lo devuelve en el formato
// de la plataforma: idioma en minúsculas y región en mayúsculas separados por "_".
// Sin región explícita se usa la del idioma por defecto si comparten idioma ("es" -> "es_MX");
// si no, la región más probable del idioma ("en" -> "en_US").
func normalizeLang(s, defaultLang string) (string, error) {
	s = strings.TrimSpace(s)
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("lang %q inválido: %w", s, err)
	}
	base, conf := tag.Base()
	if conf == language.No || base.String() == "und" {
		return "", fmt.Errorf("lang %q sin idioma reconocible", s)
	}
	region, conf := tag.Region()
	if conf != language.Exact {
		if def, err := language.Parse(strings.ReplaceAll(defaultLang, "_", "-")); err == nil {
			defBase, _ := def.Base()
			defRegion, defConf := def.Region()
			if defBase == base && defConf == language.Exact {
				region, conf = defRegion, language.Exact
			}
		}
	}
	if conf == language.No || region.String() == "ZZ" {
		return "", fmt.Errorf("lang %q sin región reconocible", s)
	}
	return base.String() + "_" + region.String(), nil
}
