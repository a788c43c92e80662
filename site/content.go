package site

type NavLink struct {
	Href  string
	Label string
}

type Offering struct {
	Title string
	Body  string
}

type JoinStep struct {
	Number int
	Title  string
	Body   string
}

type PackageOption struct {
	Value string
	Label string
}

type Testimonial struct {
	Quote  string
	Author string
	Place  string
	Photo  string
}

type ContactChannel struct {
	Kind     string // email | phone | messenger | whatsapp
	Label    string
	Href     string
	External bool
}

type FAQ struct {
	Question string
	Answer   string // markdown
}

// Content is everything the landing page shows. It is plain data; only the
// relay & map urls come from config.
type Content struct {
	Brand        string
	HeroTitle    string
	HeroTagline  string
	AboutImage   string
	Mission      string // markdown
	Vision       string // markdown
	Nav          []NavLink
	Offerings    []Offering
	Steps        []JoinStep
	Packages     []PackageOption
	Testimonials []Testimonial
	Contacts     []ContactChannel
	FAQs         []FAQ
	Footer       string
	FormRelayUrl string
	MapEmbedUrl  string
}

// DefaultContent returns the Agri-Well page content
func DefaultContent() Content {
	return Content{
		Brand:       "Agri-Well/1Nature Team Ayos",
		HeroTitle:   "Join the Agri-Wellness Revolution",
		HeroTagline: "Empowering Filipino families through sustainable farming and holistic wellness.",
		AboutImage:  "https://placehold.co/800x600/e6f5e1/2d5b16?text=Agri-Well+Mission",
		Mission:     "Our mission is to promote **health and sustainability** through natural farming and holistic wellness, nurturing a greener planet and healthier lives.",
		Vision:      "We envision a future where every Filipino family is empowered with the knowledge and resources to achieve **financial independence and total healing**, one garden and one home at a time.",
		Nav: []NavLink{
			{Href: "#home", Label: "Home"},
			{Href: "#about", Label: "About Us"},
			{Href: "#opportunities", Label: "Opportunities"},
			{Href: "#join", Label: "How to Join"},
			{Href: "#contact", Label: "Contact"},
		},
		Offerings: []Offering{
			{Title: "Agriculture Products", Body: "Discover our range of organic vegetables, herbs, and easy-to-grow plant kits for your home garden."},
			{Title: "Wellness Products", Body: "Explore natural remedies like essential oils, herbal teas, and other products designed for holistic healing and well-being."},
			{Title: "Affiliate/Negosyo Kit", Body: "Start your own business with our comprehensive starter packages and a clear earnings breakdown to help you succeed."},
		},
		Steps: []JoinStep{
			{Number: 1, Title: "Register Online", Body: "Fill out our simple form to get started on your journey."},
			{Number: 2, Title: "Choose a Kit", Body: "Select the starter kit that best fits your goals, whether you want to farm, sell, or both!"},
			{Number: 3, Title: "Start Selling or Using", Body: "Begin your agri-wellness adventure and start earning or improving your health."},
		},
		Packages: []PackageOption{
			{Value: "starter-agri", Label: "Starter Agri Kit"},
			{Value: "starter-well", Label: "Starter Wellness Kit"},
			{Value: "full-negosyo", Label: "Full Negosyo Kit"},
		},
		Testimonials: []Testimonial{
			{Quote: "From backyard garden to full-time income! Agri-Well changed my life and my family's health.", Author: "Jane D.", Place: "Pampanga", Photo: "https://placehold.co/128x128/e6f5e1/2d5b16?text=J.D."},
			{Quote: "I started with the wellness kit and now I'm sharing the benefits with my whole community.", Author: "Mark S.", Place: "Metro Manila", Photo: "https://placehold.co/128x128/e6f5e1/2d5b16?text=M.S."},
			{Quote: "The training and support are amazing. It's more than a business, it's a family.", Author: "Ana R.", Place: "Batangas", Photo: "https://placehold.co/128x128/e6f5e1/2d5b16?text=A.R."},
		},
		Contacts: []ContactChannel{
			{Kind: "email", Label: "agriwell2025@gmail.com", Href: "mailto:agriwell2025@gmail.com"},
			{Kind: "phone", Label: "+63 995 352 7248", Href: "tel:+639953527248"},
			{Kind: "messenger", Label: "Messenger", Href: "https://m.me/joemerpoliva", External: true},
			{Kind: "whatsapp", Label: "WhatsApp", Href: "https://wa.me/639953527248", External: true},
		},
		FAQs: []FAQ{
			{Question: "Can I join without farming experience?", Answer: "Yes, absolutely! We provide all the necessary training and support. Our kits are designed for beginners, and our community is here to help you every step of the way."},
			{Question: "What's included in the wellness kits?", Answer: "Our wellness kits are packed with essential oils, herbal teas, natural food supplements, and guidebooks on holistic healing practices. The contents may vary by package, but they are all curated for your well-being."},
			{Question: "Can I earn even as a part-timer?", Answer: "Of course! The Agri-Well business model is flexible and perfect for part-timers. You can work at your own pace, set your own hours, and still achieve great success by using our comprehensive earning breakdown and marketing tools."},
		},
		Footer: "© 2025 Agri-Well Negosyo. All Rights Reserved.",
	}
}
