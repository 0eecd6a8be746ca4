// Package qrcode renders PNG QR codes with medium error correction.
//
//	png, err := qrcode.Generate("https://cdn.example.com/cdn/logo.png", 256)
//	uri, err := qrcode.GenerateBase64Image(url, 0) // data URI for <img src>
package qrcode
