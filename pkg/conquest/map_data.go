package conquest

// Tile order follows faction order; indices are part of the persisted state
// and must not be reshuffled once a variant ships.

func buildTinyMap() *Map {
	b := newMapBuilder(Tiny, Rules{
		MinPlayers:     2,
		MaxPlayers:     3,
		ArmyNumber:     5,
		MaxAttackDice:  3,
		MaxDefendDice:  2,
		OwnershipBonus: 2,
		MaxHand:        5,
	})

	b.faction("North",
		[2]string{"frm", "Frostmark"},
		[2]string{"hgf", "Highfold"},
		[2]string{"irp", "Ironpeak"},
	)
	b.faction("South",
		[2]string{"slm", "Saltmere"},
		[2]string{"dnw", "Dunewatch"},
	)

	b.link("frm", "hgf", "irp")
	b.link("hgf", "irp", "slm")
	b.link("irp", "dnw")
	b.link("slm", "dnw")

	return b.build()
}

func buildHelvetiaMap() *Map {
	b := newMapBuilder(Helvetia, Rules{
		MinPlayers:       2,
		MaxPlayers:       5,
		ArmyNumber:       60,
		MaxAttackDice:    3,
		MaxDefendDice:    2,
		MultiHopTransfer: true,
		OwnershipBonus:   2,
		MaxHand:          5,
	})

	b.faction("Lake Geneva",
		[2]string{"VD", "Vaud"},
		[2]string{"VS", "Valais"},
		[2]string{"GE", "Geneva"},
	)
	b.faction("Espace Mittelland",
		[2]string{"BE", "Bern"},
		[2]string{"FR", "Fribourg"},
		[2]string{"SO", "Solothurn"},
		[2]string{"NE", "Neuchâtel"},
		[2]string{"JU", "Jura"},
	)
	b.faction("Northwestern Switzerland",
		[2]string{"BS", "Basel-Stadt"},
		[2]string{"BL", "Basel-Landschaft"},
		[2]string{"AG", "Aargau"},
	)
	b.faction("Zürich",
		[2]string{"ZH", "Zürich"},
	)
	b.faction("Eastern Switzerland",
		[2]string{"GL", "Glarus"},
		[2]string{"SH", "Schaffhausen"},
		[2]string{"AR", "Appenzell Ausserrhoden"},
		[2]string{"AI", "Appenzell Innerrhoden"},
		[2]string{"SG", "St. Gallen"},
		[2]string{"GR", "Graubünden"},
		[2]string{"TG", "Thurgau"},
	)
	b.faction("Central Switzerland",
		[2]string{"LU", "Lucerne"},
		[2]string{"UR", "Uri"},
		[2]string{"SZ", "Schwyz"},
		[2]string{"OW", "Obwalden"},
		[2]string{"NW", "Nidwalden"},
		[2]string{"ZG", "Zug"},
	)
	b.faction("Ticino",
		[2]string{"TI", "Ticino"},
	)

	b.link("VD", "GE", "VS", "FR", "NE", "BE")
	b.link("VS", "BE", "UR", "TI")
	b.link("BE", "FR", "NE", "JU", "SO", "AG", "LU", "OW", "NW", "UR")
	b.link("FR", "NE")
	b.link("SO", "JU", "BL", "AG")
	b.link("NE", "JU")
	b.link("JU", "BL")
	b.link("BS", "BL")
	b.link("BL", "AG")
	b.link("AG", "LU", "ZG", "ZH")
	b.link("ZH", "ZG", "SZ", "SG", "TG", "SH")
	b.link("GL", "SZ", "UR", "GR", "SG")
	b.link("SH", "TG")
	b.link("AR", "AI", "SG")
	b.link("AI", "SG")
	b.link("SG", "TG", "SZ", "GR")
	b.link("GR", "UR", "TI")
	b.link("LU", "ZG", "SZ", "NW", "OW")
	b.link("UR", "SZ", "TI", "NW", "OW")
	b.link("SZ", "ZG", "LU", "NW")
	b.link("OW", "NW")

	return b.build()
}

func buildWorldMap() *Map {
	b := newMapBuilder(World, Rules{
		MinPlayers:       2,
		MaxPlayers:       6,
		ArmyNumber:       120,
		MaxAttackDice:    3,
		MaxDefendDice:    2,
		MultiHopTransfer: true,
		OwnershipBonus:   2,
		MaxHand:          5,
	})

	b.faction("North America",
		[2]string{"ala", "Alaska"},
		[2]string{"nwt", "Northwest Territory"},
		[2]string{"grl", "Greenland"},
		[2]string{"alb", "Alberta"},
		[2]string{"ont", "Ontario"},
		[2]string{"que", "Quebec"},
		[2]string{"wus", "Western United States"},
		[2]string{"eus", "Eastern United States"},
		[2]string{"cam", "Central America"},
	)
	b.faction("South America",
		[2]string{"ven", "Venezuela"},
		[2]string{"per", "Peru"},
		[2]string{"bra", "Brazil"},
		[2]string{"arg", "Argentina"},
	)
	b.faction("Europe",
		[2]string{"ice", "Iceland"},
		[2]string{"sca", "Scandinavia"},
		[2]string{"ukr", "Ukraine"},
		[2]string{"gbr", "Great Britain"},
		[2]string{"neu", "Northern Europe"},
		[2]string{"weu", "Western Europe"},
		[2]string{"seu", "Southern Europe"},
	)
	b.faction("Africa",
		[2]string{"naf", "North Africa"},
		[2]string{"egy", "Egypt"},
		[2]string{"eaf", "East Africa"},
		[2]string{"con", "Congo"},
		[2]string{"saf", "South Africa"},
		[2]string{"mad", "Madagascar"},
	)
	b.faction("Asia",
		[2]string{"ura", "Ural"},
		[2]string{"sib", "Siberia"},
		[2]string{"yak", "Yakutsk"},
		[2]string{"kam", "Kamchatka"},
		[2]string{"irk", "Irkutsk"},
		[2]string{"mon", "Mongolia"},
		[2]string{"jap", "Japan"},
		[2]string{"afg", "Afghanistan"},
		[2]string{"chi", "China"},
		[2]string{"mid", "Middle East"},
		[2]string{"ind", "India"},
		[2]string{"sia", "Siam"},
	)
	b.faction("Australia",
		[2]string{"idn", "Indonesia"},
		[2]string{"ngu", "New Guinea"},
		[2]string{"wau", "Western Australia"},
		[2]string{"eau", "Eastern Australia"},
	)

	b.link("ala", "nwt", "alb", "kam")
	b.link("nwt", "alb", "ont", "grl")
	b.link("grl", "ont", "que", "ice")
	b.link("alb", "ont", "wus")
	b.link("ont", "que", "wus", "eus")
	b.link("que", "eus")
	b.link("wus", "eus", "cam")
	b.link("eus", "cam")
	b.link("cam", "ven")

	b.link("ven", "per", "bra")
	b.link("per", "bra", "arg")
	b.link("bra", "arg", "naf")

	b.link("ice", "sca", "gbr")
	b.link("sca", "ukr", "gbr", "neu")
	b.link("ukr", "neu", "seu", "ura", "afg", "mid")
	b.link("gbr", "neu", "weu")
	b.link("neu", "weu", "seu")
	b.link("weu", "seu", "naf")
	b.link("seu", "naf", "egy", "mid")

	b.link("naf", "egy", "eaf", "con")
	b.link("egy", "eaf", "mid")
	b.link("eaf", "con", "saf", "mad", "mid")
	b.link("con", "saf")
	b.link("saf", "mad")

	b.link("ura", "sib", "chi", "afg")
	b.link("sib", "yak", "irk", "mon", "chi")
	b.link("yak", "kam", "irk")
	b.link("kam", "irk", "mon", "jap")
	b.link("irk", "mon")
	b.link("mon", "chi", "jap")
	b.link("afg", "chi", "ind", "mid")
	b.link("chi", "ind", "sia")
	b.link("mid", "ind")
	b.link("ind", "sia")
	b.link("sia", "idn")

	b.link("idn", "ngu", "wau")
	b.link("ngu", "wau", "eau")
	b.link("wau", "eau")

	return b.build()
}
