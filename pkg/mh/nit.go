package mh

import (
	"fmt"
	"unicode"
)

// ValidarNIT valida que el NIT salvadoreño (con o sin guiones) tenga exactamente
// 14 dígitos. taxID puede ser "0614-010123-101-8" o "06140101231018".
func ValidarNIT(taxID string) error {
	digits := extraerDigitos(taxID)
	if len(digits) != 14 {
		return fmt.Errorf("mh: NIT debe tener exactamente 14 dígitos, se encontraron %d", len(digits))
	}
	return nil
}

// pesos para el cálculo del dígito verificador del DUI (módulo 10).
// Se aplican a los 8 primeros dígitos, de izquierda a derecha.
var duiPesos = [8]int{9, 8, 7, 6, 5, 4, 3, 2}

// ValidarDUI valida que el DUI (con o sin guion) tenga 9 dígitos y un dígito
// verificador correcto según el algoritmo módulo 10 del RNPN.
// dui puede ser "01234567-8" o "012345678".
func ValidarDUI(dui string) error {
	digits := extraerDigitos(dui)
	if len(digits) != 9 {
		return fmt.Errorf("mh: DUI debe tener 9 dígitos, se encontraron %d", len(digits))
	}
	var sum int
	for i := 0; i < 8; i++ {
		sum += int(digits[i]-'0') * duiPesos[i]
	}
	esperado := byte('0' + (10-sum%10)%10)
	if digits[8] != esperado {
		return fmt.Errorf("mh: dígito verificador del DUI inválido: esperado %c, recibido %c", esperado, digits[8])
	}
	return nil
}

func extraerDigitos(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}
