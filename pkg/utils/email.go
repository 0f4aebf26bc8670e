package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

var (
	emailFrom     = os.Getenv("EMAIL_FROM")
	emailPassword = os.Getenv("EMAIL_PASSWORD")
	smtpHost      = os.Getenv("SMTP_HOST")
	smtpPort      = os.Getenv("SMTP_PORT")
	companyName   = "FreightFloo Inc."
	baseURL       = os.Getenv("BASE_URL")
)

// Common header template for all emails
const emailHeader = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="text-align: center; margin-bottom: 30px; background-color: #f9f9f9; padding: 20px;">
			<h2 style="color: #1565C0; margin: 0;">FreightFloo</h2>
		</div>
`

// Common footer template for all emails
const emailFooter = `
		<div style="text-align: center; margin-top: 20px; font-size: 12px; color: #666; border-top: 1px solid #eee; padding-top: 20px;">
			<p>This is an automated message, please do not reply to this email.</p>
			<p>© 2025 FreightFloo Inc. All rights reserved.</p>
		</div>
	</div>
</body>
</html>
`

func sendEmail(to []string, subject, body string) error {
	if emailFrom == "" || emailPassword == "" || smtpHost == "" || smtpPort == "" {
		return fmt.Errorf("email configuration not set")
	}

	// Headers
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", companyName, emailFrom)
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"
	headers["X-Mailer"] = "FreightFloo-Mailer"

	// Build message
	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + body

	auth := smtp.PlainAuth("", emailFrom, emailPassword, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, emailFrom, to, []byte(message))
	if err != nil {
		log.Printf("Failed to send email: %v", err)
		return err
	}

	log.Printf("Successfully sent email to recipients: %v", to)
	return nil
}

// SendEventEmail sends a generic marketplace event email, used by the
// notification dispatcher for all bid/payment/shipment events.
func SendEventEmail(to, title, body string) error {
	emailBody := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">%s</h1>
					<p>Hello,</p>
					<p>%s</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/dashboard" style="background-color: #1565C0; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">Open FreightFloo</a>
					</div>
					<p>Best regards,<br>The FreightFloo Team</p>
				</div>`+emailFooter,
		title, body, baseURL)

	return sendEmail([]string{to}, title+" - FreightFloo", emailBody)
}

func SendEmailVerificationOTP(email, otp string) error {
	subject := "Verify Your Email - FreightFloo"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Verify Your Email</h1>
					<p>Hello,</p>
					<p>Welcome to FreightFloo! Use the code below to verify your email address:</p>
					<div style="text-align: center; margin: 30px 0;">
						<span style="font-size: 32px; font-weight: bold; letter-spacing: 8px; color: #1565C0;">%s</span>
					</div>
					<p>This code expires in 15 minutes.</p>
					<p>Best regards,<br>The FreightFloo Team</p>
				</div>`+emailFooter,
		otp)

	return sendEmail([]string{email}, subject, body)
}

func SendPasswordResetOTP(email, otp string) error {
	subject := "Password Reset Code - FreightFloo"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Password Reset</h1>
					<p>Hello,</p>
					<p>We received a request to reset your FreightFloo password. Use the code below:</p>
					<div style="text-align: center; margin: 30px 0;">
						<span style="font-size: 32px; font-weight: bold; letter-spacing: 8px; color: #1565C0;">%s</span>
					</div>
					<p>If you did not request a reset, you can safely ignore this email.</p>
					<p>Best regards,<br>The FreightFloo Team</p>
				</div>`+emailFooter,
		otp)

	return sendEmail([]string{email}, subject, body)
}

func SendNewBidEmail(ownerEmail, shipmentTitle, carrierName string, amount float64) error {
	subject := "New Bid on Your Shipment - FreightFloo"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">New Bid Received</h1>
					<p>Hello,</p>
					<p><strong>%s</strong> placed a bid of <strong>$%.2f</strong> on your shipment <strong>%s</strong>.</p>
					<p>Log in to review and accept or reject this bid.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/login" style="background-color: #1565C0; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">Review Bid</a>
					</div>
					<p>Best regards,<br>The FreightFloo Team</p>
				</div>`+emailFooter,
		carrierName, amount, shipmentTitle, baseURL)

	return sendEmail([]string{ownerEmail}, subject, body)
}

func SendBidAcceptedEmail(carrierEmail, shipmentTitle string, amount float64) error {
	subject := "Bid Accepted - FreightFloo"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Bid Accepted</h1>
					<p>Hello,</p>
					<p>Great news! Your bid of <strong>$%.2f</strong> on <strong>%s</strong> was accepted.</p>
					<p>The shipment will be assigned to you once the shipper completes payment.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/dashboard" style="background-color: #1565C0; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">View Shipment</a>
					</div>
					<p>Best regards,<br>The FreightFloo Team</p>
				</div>`+emailFooter,
		amount, shipmentTitle, baseURL)

	return sendEmail([]string{carrierEmail}, subject, body)
}

func SendBidRejectedEmail(carrierEmail, shipmentTitle string) error {
	subject := "Bid Update - FreightFloo"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Bid Not Accepted</h1>
					<p>Hello,</p>
					<p>Unfortunately, your bid on <strong>%s</strong> was not accepted.</p>
					<p>You can place a new, lower bid while the shipment is still open.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/shipments" style="background-color: #1565C0; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">Browse Shipments</a>
					</div>
					<p>Best regards,<br>The FreightFloo Team</p>
				</div>`+emailFooter,
		shipmentTitle, baseURL)

	return sendEmail([]string{carrierEmail}, subject, body)
}

func SendShipmentAssignedEmail(carrierEmail, shipmentTitle string, amount float64) error {
	subject := "Shipment Assigned - FreightFloo"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Shipment Assigned</h1>
					<p>Hello,</p>
					<p>Payment of <strong>$%.2f</strong> has cleared and <strong>%s</strong> is now assigned to you.</p>
					<p>Update the tracking status as you pick up and deliver the load.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/dashboard" style="background-color: #1565C0; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">View Assignment</a>
					</div>
					<p>Best regards,<br>The FreightFloo Team</p>
				</div>`+emailFooter,
		amount, shipmentTitle, baseURL)

	return sendEmail([]string{carrierEmail}, subject, body)
}
