package screener

// LQ45 is the default screening universe of liquid IDX stocks.
var LQ45 = []string{
	// banking
	"BBCA.JK", "BBRI.JK", "BMRI.JK", "BBNI.JK", "BRIS.JK",
	// telco and tech
	"TLKM.JK", "GOTO.JK", "BUKA.JK",
	// mining and energy
	"ADRO.JK", "PTBA.JK", "ANTM.JK", "INCO.JK", "MDKA.JK",
	"ITMG.JK", "HRUM.JK", "PGAS.JK",
	// consumer
	"UNVR.JK", "ICBP.JK", "INDF.JK", "MYOR.JK", "KLBF.JK",
	// automotive and industrial
	"ASII.JK", "UNTR.JK", "SRTG.JK",
	// property and infrastructure
	"CTRA.JK", "BSDE.JK", "SMGR.JK", "INTP.JK",
	// petrochemical and diversified
	"BRPT.JK", "AKRA.JK", "TPIA.JK",
	// media and services
	"MNCN.JK", "EMTK.JK", "ACES.JK",
	// non-bank finance
	"BBTN.JK", "BTPS.JK",
	// healthcare
	"SIDO.JK",
	"TOWR.JK", "TBIG.JK", "EXCL.JK", "ESSA.JK",
	"AMMN.JK", "CPIN.JK", "JPFA.JK", "ERAA.JK", "MAPI.JK",
}
