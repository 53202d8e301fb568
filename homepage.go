package dejasite

import (
	"github.com/dejaos/dejasite/i18n"
	"github.com/dejaos/dejasite/views"
)

type textCardDefault struct {
	id, title, subtitle string
}

var featureCards = []textCardDefault{
	{"hardware", "Hardware Interface Modules", "Control GPIO, PWM, UART, USB, NFC, QR Code, Bluetooth, and more with simple JavaScript APIs. Full hardware abstraction layer for easy device integration."},
	{"gui", "Modern GUI Development", "Create beautiful user interfaces using JavaScript and LVGL. Support for touch screens, custom widgets, and responsive layouts."},
	{"network", "Network & Communication", "Built-in support for TCP, UDP, HTTP, MQTT, Web Server, and various communication protocols for IoT applications."},
	{"realtime", "Real-time Development", "Live code sync from VSCode to device, instant debugging, and hot reload capabilities for faster development cycles."},
	{"multithreading", "Multi-threading Support", "JavaScript Worker threads for concurrent operations, EventBus for inter-thread communication, and thread pool management."},
	{"database", "Database & Storage", "SQLite database support, file system operations, and persistent storage capabilities for data management."},
	{"security", "Security & Encryption", "Built-in encryption/decryption modules, secure communication protocols, and authentication mechanisms."},
	{"thirdparty", "Third-party Module Support", "Import and use any npm package or pure JavaScript modules with ES6 import syntax."},
	{"deployment", "Production Deployment", "Easy DPK packaging system for deploying applications to production devices with automatic updates."},
	{"compatibility", "Cross-platform Compatibility", "Support for various ARM-based devices, with continuous expansion to new hardware platforms."},
}

var technicalCards = []textCardDefault{
	{"quickjs", "QuickJS Engine", "Fast and lightweight JavaScript engine supporting ES2020 standard, perfect for resource-constrained embedded devices."},
	{"lvgl", "LVGL Graphics Library", "Popular open-source embedded graphics library providing rich UI components and smooth animations."},
	{"linux", "Mip/ARMLinux", "Embedded Linux distribution with full system capabilities, process management, and resource scheduling."},
}

func textCards(t i18n.Localizer, group string, defs []textCardDefault) []views.TextCard {
	cards := make([]views.TextCard, len(defs))
	for i, d := range defs {
		cards[i] = views.TextCard{
			Title:    t.T("homepage."+group+"."+d.id+".title", d.title),
			Subtitle: t.T("homepage."+group+"."+d.id+".subtitle", d.subtitle),
		}
	}
	return cards
}

// homeContent assembles the homepage blocks for one locale. Internal links
// get the locale prefix.
func (a *App) homeContent(locale string) views.Home {
	t := a.content.Bundle.For(locale)
	return views.Home{
		Hero: views.Hero{
			Title:       t.T("homepage.hero.title", "DejaOS"),
			Subtitle:    t.T("homepage.hero.subtitle", "JavaScript Runtime Environment for Embedded Devices - Make embedded application development easier with JavaScript."),
			ButtonLabel: t.T("homepage.hero.buttonLabel", "Get Started"),
			ButtonURL:   "#get-started",
			ImageURL:    "/img/homepage/dejaos-logo.svg",
		},
		ImageAndText: views.ImageAndText{
			Title:    t.T("homepage.imageAndText.title", "JavaScript Everywhere in Embedded World"),
			Text:     t.T("homepage.imageAndText.description", "DejaOS makes embedded application development painless and efficient. Use JavaScript to control hardware interfaces, create beautiful GUIs, and build network applications. Leverage the power of QuickJS engine and LVGL graphics library. Develop with real-time sync and debugging capabilities. From IoT devices to smart terminals, DejaOS powers the future of embedded computing!"),
			ImageURL: "/img/homepage/embedded-devices.svg",
		},
		GetStarted: views.CtaCards{
			ID:       "get-started",
			Title:    t.T("homepage.ctaCards.title", "Start Building in Minutes"),
			Subtitle: t.T("homepage.ctaCards.subtitle", "Set up your DejaOS development environment quickly. Get instructions for installing VSCode extension, connecting your device, and start coding your first embedded JavaScript application."),
			Cards: []views.CtaCard{
				{
					Text:        t.T("homepage.ctaCards.card1.text", "I want to set up development environment"),
					ButtonLabel: t.T("homepage.ctaCards.card1.buttonLabel", "Install Guide"),
					ButtonURL:   a.localePath(locale, "/docs/basics/installation"),
				},
				{
					Text:        t.T("homepage.ctaCards.card2.text", "I want to see supported devices"),
					ButtonLabel: t.T("homepage.ctaCards.card2.buttonLabel", "Device List"),
					ButtonURL:   a.localePath(locale, "/docs/basics/dejaos-device"),
				},
			},
		},
		Features: views.TextCards{
			Title:    t.T("homepage.textCards.features.title", "Powerful Features for Embedded Development"),
			Subtitle: t.T("homepage.textCards.features.subtitle", "DejaOS is feature-packed, providing everything you need for modern embedded application development!"),
			Cards:    textCards(t, "features", featureCards),
		},
		Showcase: views.FeatureShowcase{
			Title:    t.T("homepage.featureShowcase.title", "Development Experience You Will Love"),
			Text:     t.T("homepage.featureShowcase.text", "Enjoy modern development tools with VSCode integration, real-time debugging, and comprehensive documentation. Build embedded applications with the same ease as web development."),
			ImageURL: "/img/homepage/development-experience.png",
		},
		Technical: views.TextCards{
			Title:    t.T("homepage.textCards.technical.title", "Technical Foundation"),
			Subtitle: t.T("homepage.textCards.technical.subtitle", "Built on proven technologies for reliability and performance"),
			Cards:    textCards(t, "technical", technicalCards),
		},
	}
}
