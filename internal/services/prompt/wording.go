package prompt

// wording holds every fixed sentence of the itinerary prompt for one language.
type wording struct {
	system        string
	role          string
	request       string // days, country, category
	placesIntro   string
	price         string
	rating        string
	idealFor      string
	reservation   string
	formatHeading string
	dayLine       string // day number
	mentionDay    string
	onePerDay     string
	tips          string
	linksHeading  string
	linksList     string
	tone          string
}

var english = wording{
	system:        "You are a luxury travel expert.",
	role:          "You are a travel-itinerary expert and tour guide.",
	request:       "Create a **complete and realistic %d-day itinerary** in **%s**, for the activity category **%s**.",
	placesIntro:   "Here are the places that MUST be included in the itinerary:",
	price:         "Price",
	rating:        "Rating",
	idealFor:      "Ideal for",
	reservation:   "Reservation",
	formatHeading: "EXPECTED FORMAT:",
	dayLine:       "- **Day %d:** detailed schedule, activities, explanations",
	mentionDay:    "- State clearly **on which day each place appears**",
	onePerDay:     "- Every day must include at least **one of the listed places**",
	tips:          "- Add practical tips (opening hours, transport, duration)",
	linksHeading:  "### Reservation links",
	linksList:     "- Finish with the section below and list every link provided:",
	tone:          "Be inspiring and premium, but concrete and realistic.",
}

var french = wording{
	system:        "Tu es un expert en voyages de luxe.",
	role:          "Tu es un expert en organisation de voyages et guide touristique.",
	request:       "Crée un **itinéraire complet et réaliste de %d jours** à **%s**, pour la catégorie d'activité **%s**.",
	placesIntro:   "Voici la liste des lieux à intégrer IMPÉRATIVEMENT dans les propositions :",
	price:         "Prix",
	rating:        "Note",
	idealFor:      "Idéal pour",
	reservation:   "Réservation",
	formatHeading: "FORMAT ATTENDU :",
	dayLine:       "- **Jour %d :** programme détaillé, activités, explications",
	mentionDay:    "- Mentionne clairement **dans quel jour apparaît chaque lieu**",
	onePerDay:     "- Chaque jour doit contenir au moins **un des lieux listés**",
	tips:          "- Ajoute des conseils pratiques (horaires, transport, durée)",
	linksHeading:  "### Liens de réservation",
	linksList:     "- Termine par le bloc ci-dessous et liste tous les liens fournis :",
	tone:          "Sois inspirant, premium, mais concret et réaliste.",
}

func wordingFor(language string) wording {
	if language == "fr" {
		return french
	}
	return english
}
