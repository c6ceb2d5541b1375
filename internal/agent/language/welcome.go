package language

// WelcomeMessage is the static bilingual greeting sent before the first
// user message, i.e. before any language has been detected.
func WelcomeMessage() string {
	return `👋 Bonjour ! Je suis MarIA, votre assistante virtuelle de la CCI France-Colombie.

Mon rôle est de mieux comprendre vos besoins en tant qu'adhérent(e) et de vous accompagner si vous avez la moindre question concernant nos offres, services, événements.

📋 Ce petit échange comprend 8 questions simples, et ne vous prendra que quelques minutes.

Dites-moi quand vous êtes prêt(e), je suis à votre écoute ! 😊

---

👋 ¡Hola! Soy MarIA, tu asistente virtual de la CCI Francia-Colombia.

Mi objetivo es comprender mejor tus necesidades como miembro y acompañarte si tienes cualquier duda sobre nuestras ofertas, servicios o eventos.

📋 Este breve intercambio contiene 8 preguntas sencillas y solo te tomará unos minutos.

¡Dime cuándo estés listo(a), estoy aquí para ayudarte! 😊`
}
