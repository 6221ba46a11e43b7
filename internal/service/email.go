package service

import (
	"fmt"
	"net/smtp"
	"os"
)

type EmailSender interface {
	SendPurchaseConfirmation(to, code string, codeID uint, imageURL string) error
	SendPasswordReset(to, link string) error
}

type smtpEmail struct{}

func NewEmailSender() EmailSender { return &smtpEmail{} }

func (s *smtpEmail) SendPurchaseConfirmation(to, code string, codeID uint, imageURL string) error {
	body := fmt.Sprintf(
		"Merci pour votre commande !\n\n"+
			"Votre code plaque : %s (ref %d)\n"+
			"Activez-le ici : %s\n",
		code, codeID, activationLink(code))
	if imageURL != "" {
		body += "\nAperçu du QR code : " + imageURL + "\n"
	}
	return s.send(to, "Votre plaque CodeQR", body)
}

func (s *smtpEmail) SendPasswordReset(to, link string) error {
	body := "Pour réinitialiser votre mot de passe, cliquez sur ce lien (valable 1h) :\n" + link + "\n"
	return s.send(to, "Réinitialisation du mot de passe", body)
}

func (s *smtpEmail) send(to, subject, body string) error {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	from := os.Getenv("SMTP_FROM")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	addr := host + ":" + port

	msg := "From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n" +
		body

	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, pass, host)
	}
	return smtp.SendMail(addr, auth, from, []string{to}, []byte(msg))
}

func activationLink(code string) string {
	base := os.Getenv("PUBLIC_BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	return base + "/qr/" + code + "/activation"
}
