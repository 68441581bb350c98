package forecast

// routeDecoder maps route codes to display names. Codes missing here are shown raw.
var routeDecoder = map[string]string{
	"AKLKUL": "Auckland (AKL) to Kuala Lumpur (KUL)",
	"PENTPE": "Penang (PEN) to Taipei (TPE)",
	"DMKIXB": "Don Mueang (DMK) to Bagdogra (IXB)",
	"ICNCTS": "Seoul (ICN) to Sapporo (CTS)",
	"CTSSIN": "Sapporo (CTS) to Singapore (SIN)",
}

// FormatRoute returns the human-readable name of a route code.
func FormatRoute(code string) string {
	if label, ok := routeDecoder[code]; ok {
		return label
	}
	return code
}
