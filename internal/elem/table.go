package elem

// Element is one immutable catalogue entry: ordinal number, name,
// symbol and the electron spin occupancy as a Config.
type Element struct {
	Number int
	Name   string
	Symbol string
	Config Config
}

var table [Spins + 1]*Element

func init() {
	add := func(number int, name, symbol string, w0, w1, w2, w3 uint32) {
		table[number] = &Element{
			Number: number,
			Name:   name,
			Symbol: symbol,
			Config: NewConfig(w0, w1, w2, w3),
		}
	}

	const full = 0xFFFFFFFF

	add(1, "hydrogen", "H", 1, 0, 0, 0)
	add(2, "helium", "He", 3, 0, 0, 0)
	add(3, "lithium", "Li", 7, 0, 0, 0)
	add(4, "beryllium", "Be", 15, 0, 0, 0)
	add(5, "boron", "B", 31, 0, 0, 0)
	add(6, "carbon", "C", 95, 0, 0, 0)
	add(7, "nitrogen", "N", 351, 0, 0, 0)
	add(8, "oxygen", "O", 383, 0, 0, 0)
	add(9, "fluorine", "F", 511, 0, 0, 0)
	add(10, "neon", "Ne", 1023, 0, 0, 0)
	add(11, "sodium", "Na", 2047, 0, 0, 0)
	add(12, "magnesium", "Mg", 4095, 0, 0, 0)
	add(13, "aluminium", "Al", 8191, 0, 0, 0)
	add(14, "silicon", "Si", 24575, 0, 0, 0)
	add(15, "phosphorus", "P", 90111, 0, 0, 0)
	add(16, "sulfur", "S", 98303, 0, 0, 0)
	add(17, "chlorine", "Cl", 131071, 0, 0, 0)
	add(18, "argon", "Ar", 262143, 0, 0, 0)
	add(19, "potassium", "K", 524287, 0, 0, 0)
	add(20, "calcium", "Ca", 1048575, 0, 0, 0)
	add(21, "scandium", "Sc", 2097151, 0, 0, 0)
	add(22, "titanium", "Ti", 6291455, 0, 0, 0)
	add(23, "vanadium", "V", 23068671, 0, 0, 0)
	add(24, "chromium", "Cr", 358088703, 0, 0, 0)
	add(25, "manganese", "Mn", 358612991, 0, 0, 0)
	add(26, "iron", "Fe", 360710143, 0, 0, 0)
	add(27, "cobalt", "Co", 369098751, 0, 0, 0)
	add(28, "nickel", "Ni", 402653183, 0, 0, 0)
	add(29, "copper", "Cu", 1073217535, 0, 0, 0)
	add(30, "zinc", "Zn", 1073741823, 0, 0, 0)
	add(31, "gallium", "Ga", 2147483647, 0, 0, 0)
	add(32, "germanium", "Ge", 2147483647, 1, 0, 0)
	add(33, "arsenic", "As", 2147483647, 5, 0, 0)
	add(34, "selenium", "Se", full, 5, 0, 0)
	add(35, "bromine", "Br", full, 7, 0, 0)
	add(36, "krypton", "Kr", full, 15, 0, 0)
	add(37, "rubidium", "Rb", full, 31, 0, 0)
	add(38, "strontium", "Sr", full, 63, 0, 0)
	add(39, "yttrium", "Y", full, 127, 0, 0)
	add(40, "zirconium", "Zr", full, 383, 0, 0)
	add(41, "niobium", "Nb", full, 5471, 0, 0)
	add(42, "molybdenum", "Mo", full, 21855, 0, 0)
	add(43, "technetium", "Tc", full, 21887, 0, 0)
	add(44, "ruthenium", "Ru", full, 22495, 0, 0)
	add(45, "rhodium", "Rh", full, 24543, 0, 0)
	add(46, "palladium", "Pd", full, 65487, 0, 0)
	add(47, "silver", "Ag", full, 65503, 0, 0)
	add(48, "cadmium", "Cd", full, 65535, 0, 0)
	add(49, "indium", "In", full, 131071, 0, 0)
	add(50, "tin", "Sn", full, 393215, 0, 0)
	add(51, "antimony", "Sb", full, 1441791, 0, 0)
	add(52, "tellurium", "Te", full, 1572863, 0, 0)
	add(53, "iodine", "I", full, 2097151, 0, 0)
	add(54, "xenon", "Xe", full, 4194303, 0, 0)
	add(55, "caesium", "Cs", full, 8388607, 0, 0)
	add(56, "barium", "Ba", full, 16777215, 0, 0)
	add(57, "lanthanum", "La", full, 16777215, 64, 0)
	add(58, "cerium", "Ce", full, 33554431, 64, 0)
	add(59, "praseodymium", "Pr", full, 369098751, 0, 0)
	add(60, "neodymium", "Nd", full, 1442840575, 0, 0)
	add(61, "promethium", "Pm", full, 1442840575, 1, 0)
	add(62, "samarium", "Sm", full, 1442840575, 5, 0)
	add(63, "europium", "Eu", full, 1442840575, 21, 0)
	add(64, "gadolinium", "Gd", full, 1442840575, 85, 0)
	add(65, "terbium", "Tb", full, 1610612735, 21, 0)
	add(66, "dysprosium", "Dy", full, 2147483647, 21, 0)
	add(67, "holmium", "Ho", full, full, 21, 0)
	add(68, "erbium", "Er", full, full, 23, 0)
	add(69, "thulium", "Tm", full, full, 31, 0)
	add(70, "ytterbium", "Yb", full, full, 63, 0)
	add(71, "lutetium", "Lu", full, full, 127, 0)
	add(72, "hafnium", "Hf", full, full, 383, 0)
	add(73, "tantalum", "Ta", full, full, 1407, 0)
	add(74, "tungsten", "W", full, full, 5503, 0)
	add(75, "rhenium", "Re", full, full, 21887, 0)
	add(76, "osmium", "Os", full, full, 22015, 0)
	add(77, "iridium", "Ir", full, full, 22527, 0)
	add(78, "platinum", "Pt", full, full, 32765, 0)
	add(79, "gold", "Au", full, full, 65533, 0)
	add(80, "mercury", "Hg", full, full, 65535, 0)
	add(81, "thallium", "Tl", full, full, 131071, 0)
	add(82, "lead", "Pb", full, full, 393215, 0)
	add(83, "bismuth", "Bi", full, full, 1441791, 0)
	add(84, "polonium", "Po", full, full, 1572863, 0)
	add(85, "astatine", "At", full, full, 2097151, 0)
	add(86, "radon", "Rn", full, full, 4194303, 0)
	add(87, "francium", "Fr", full, full, 8388607, 0)
	add(88, "radium", "Ra", full, full, 16777215, 0)
	add(89, "actinium", "Ac", full, full, 16777215, 64)
	add(90, "thorium", "Th", full, full, 83886079, 192)
	add(91, "protactinium", "Pa", full, full, 100663295, 64)
	add(92, "uranium", "U", full, full, 369098751, 64)
	add(93, "neptunium", "Np", full, full, 1442840575, 64)
	add(94, "plutonium", "Pu", full, full, 1442840575, 5)
	add(95, "americium", "Am", full, full, 1442840575, 21)
	add(96, "curium", "Cm", full, full, 1442840575, 85)
	add(97, "berkelium", "Bk", full, full, 1610612735, 21)
	add(98, "californium", "Cf", full, full, 2147483647, 21)
	add(99, "einsteinium", "Es", full, full, full, 21)
	add(100, "fermium", "Fm", full, full, full, 23)
	add(101, "mendelevium", "Md", full, full, full, 31)
	add(102, "nobelium", "No", full, full, full, 63)
	add(103, "lawrencium", "Lr", full, full, full, 65599)
	add(104, "rutherfordium", "Rf", full, full, full, 383)
	add(105, "dubnium", "Db", full, full, full, 1407)
	add(106, "seaborgium", "Sg", full, full, full, 5503)
	add(107, "bohrium", "Bh", full, full, full, 21887)
	add(108, "hassium", "Hs", full, full, full, 22015)
	add(109, "meitnerium", "Mt", full, full, full, 22527)
	add(110, "darmstadtium", "Ds", full, full, full, 24575)
	add(111, "roentgenium", "Rg", full, full, full, 32767)
	add(112, "copernicium", "Cn", full, full, full, 65535)
	add(113, "nihonium", "Nh", full, full, full, 131071)
	add(114, "flerovium", "Fl", full, full, full, 393215)
	add(115, "moscovium", "Mc", full, full, full, 1441791)
	add(116, "livermorium", "Lv", full, full, full, 1572863)
	add(117, "tennessine", "Ts", full, full, full, 2097151)
	add(118, "oganesson", "Og", full, full, full, 4194303)
}

// ByNumber returns the catalogue entry for an element number, or nil
// when the number is out of 1..118.
func ByNumber(number int) *Element {
	if number < 1 || number > Spins {
		return nil
	}
	return table[number]
}

// Table exposes the whole catalogue; index 0 is unused.
func Table() [Spins + 1]*Element {
	return table
}
